package repository

import (
	"context"

	"fundlink/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByType(ctx context.Context, userType entity.UserType, limit, offset int) ([]*entity.User, int64, error)
}

type UserDocumentRepository interface {
	Create(ctx context.Context, doc *entity.UserDocument) error
	ListByUserID(ctx context.Context, userID string) ([]*entity.UserDocument, error)
}
