package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundlink/internal/domain/entity"
	"fundlink/pkg/errors"
)

type fakeAuthClient struct {
	nextUID int
	tokens  map[string]string // token -> uid
	creds   map[string]string // email -> password
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{tokens: map[string]string{}, creds: map[string]string{}}
}

func (c *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	c.nextUID++
	c.creds[email] = password
	uid := fmt.Sprintf("uid-%d", c.nextUID)
	c.tokens["token-"+email] = uid
	return uid, nil
}

func (c *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, ok := c.tokens[token]
	if !ok {
		return "", errors.Unauthorized("Invalid token", nil)
	}
	return uid, nil
}

func (c *fakeAuthClient) SignInWithEmailPassword(email, password string) (string, error) {
	stored, ok := c.creds[email]
	if !ok || stored != password {
		return "", errors.Unauthorized("Invalid credentials", nil)
	}
	return "token-" + email, nil
}

func TestRegisterAndLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	uc := NewAuthUseCase(userRepo, newFakeAuthClient())

	result, err := uc.Register(context.Background(), RegisterInput{
		Email:    "owner@mzansi.co.za",
		Password: "secret123",
		Name:     "Mzansi Traders",
		Type:     entity.UserTypeSME,
		Company:  "Mzansi Traders (Pty) Ltd",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, entity.UserTypeSME, result.User.Type)
	assert.False(t, result.User.Verified)

	login, err := uc.Login(context.Background(), "owner@mzansi.co.za", "secret123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = uc.Login(context.Background(), "owner@mzansi.co.za", "wrong")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	uc := NewAuthUseCase(userRepo, newFakeAuthClient())

	input := RegisterInput{
		Email:    "dup@example.com",
		Password: "secret123",
		Name:     "First",
		Type:     entity.UserTypeFunder,
	}

	_, err := uc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), input)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestRegisterRejectsAdminType(t *testing.T) {
	uc := NewAuthUseCase(newFakeUserRepo(), newFakeAuthClient())

	_, err := uc.Register(context.Background(), RegisterInput{
		Email:    "root@example.com",
		Password: "secret123",
		Name:     "Root",
		Type:     entity.UserTypeAdmin,
	})

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
