package entity

import (
	"time"
)

type UserType string

const (
	UserTypeSME      UserType = "sme"
	UserTypeFunder   UserType = "funder"
	UserTypeSupplier UserType = "supplier"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID       string   `json:"id" firestore:"id"`
	Email    string   `json:"email" firestore:"email"`
	Name     string   `json:"name" firestore:"name"`
	Type     UserType `json:"type" firestore:"type"`
	Phone    string   `json:"phone,omitempty" firestore:"phone,omitempty"`
	Company  string   `json:"company,omitempty" firestore:"company,omitempty"`
	Location string   `json:"location,omitempty" firestore:"location,omitempty"`

	Verified            bool     `json:"verified" firestore:"verified"`
	Subscribed          bool     `json:"subscribed" firestore:"subscribed"`
	OnboardingComplete  bool     `json:"onboarding_complete" firestore:"onboardingComplete"`
	PreferredCategories []string `json:"preferred_categories,omitempty" firestore:"preferredCategories,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
