package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
)

type firestoreUserDocumentRepository struct {
	client *firestore.Client
}

func NewFirestoreUserDocumentRepository(client *firestore.Client) repository.UserDocumentRepository {
	return &firestoreUserDocumentRepository{
		client: client,
	}
}

func (r *firestoreUserDocumentRepository) Create(ctx context.Context, doc *entity.UserDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.UploadedAt = time.Now()

	_, err := r.client.Collection("user_documents").Doc(doc.ID).Set(ctx, doc)
	if err != nil {
		return errors.Internal("Failed to create user document", err)
	}

	return nil
}

func (r *firestoreUserDocumentRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.UserDocument, error) {
	query := r.client.Collection("user_documents").
		Where("userId", "==", userID).
		OrderBy("uploadedAt", firestore.Desc)

	iter := query.Documents(ctx)
	var docs []*entity.UserDocument

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate user documents", err)
		}

		var userDoc entity.UserDocument
		if err := doc.DataTo(&userDoc); err != nil {
			return nil, errors.Internal("Failed to parse user document data", err)
		}
		docs = append(docs, &userDoc)
	}

	return docs, nil
}
