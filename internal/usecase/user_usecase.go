package usecase

import (
	"context"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
	"fundlink/pkg/utils"
)

type UserUseCase struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
}

func NewUserUseCase(userRepo repository.UserRepository, eventRepo repository.EventRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name                string
	Phone               string
	Company             string
	Location            string
	Subscribed          *bool
	OnboardingComplete  *bool
	PreferredCategories []string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Company != "" {
		user.Company = input.Company
	}
	if input.Location != "" {
		user.Location = input.Location
	}
	if input.Subscribed != nil {
		user.Subscribed = *input.Subscribed
	}
	if input.OnboardingComplete != nil {
		user.OnboardingComplete = *input.OnboardingComplete
	}
	if input.PreferredCategories != nil {
		user.PreferredCategories = input.PreferredCategories
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetVerified is an admin action. Flipping verified to true also queues
// an event; the hosted platform's mail trigger watches the same flag.
func (uc *UserUseCase) SetVerified(ctx context.Context, adminID, userID string, verified bool) (*entity.User, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Type != entity.UserTypeAdmin {
		return nil, errors.Forbidden("Only admins can change verification status", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wasVerified := user.Verified
	user.Verified = verified

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if verified && !wasVerified {
		event := &entity.Event{
			Kind:       entity.EventKindAccountVerified,
			EntityID:   user.ID,
			Recipients: []string{user.ID},
			Text:       "Your account has been verified. You now have full access to the marketplace.",
		}
		if err := uc.eventRepo.Append(ctx, event); err != nil {
			return nil, errors.Internal("Failed to queue verification notice", err)
		}
	}

	return user, nil
}

// ListSuppliers feeds the funder's supplier picker when structuring a deal.
func (uc *UserUseCase) ListSuppliers(ctx context.Context, page, limit int) ([]*entity.User, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.userRepo.ListByType(ctx, entity.UserTypeSupplier, pagination.PageSize, pagination.Offset)
}
