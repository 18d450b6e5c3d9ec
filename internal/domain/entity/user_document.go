package entity

import (
	"time"
)

// UserDocument records a compliance document (company registration,
// tax clearance, etc.) uploaded to object storage. Only the returned
// URL is stored; the blob itself lives in the bucket.
type UserDocument struct {
	ID          string    `json:"id" firestore:"id"`
	UserID      string    `json:"user_id" firestore:"userId"`
	Label       string    `json:"label" firestore:"label"`
	FileURL     string    `json:"file_url" firestore:"fileUrl"`
	ContentType string    `json:"content_type" firestore:"contentType"`
	UploadedAt  time.Time `json:"uploaded_at" firestore:"uploadedAt"`
}
