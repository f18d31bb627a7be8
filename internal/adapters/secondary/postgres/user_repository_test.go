package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// createTestUser inserts a user with a unique email and returns it.
func createTestUser(t *testing.T) *domain.User {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	repo := NewUserRepository(testPool)
	user, err := repo.Create(context.Background(), &domain.User{
		FullName:     "Test User",
		Email:        fmt.Sprintf("user-%s@example.com", uuid.NewString()),
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err, "Failed to create test user")
	return user
}

func TestUserRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	email := fmt.Sprintf("create-get-%s@example.com", uuid.NewString())
	created, err := repo.Create(ctx, &domain.User{
		FullName:     "Ada Lovelace",
		Email:        email,
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err, "Failed to create user")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err, "Failed to get user by email")
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ada Lovelace", found.FullName)

	foundByID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get user by ID")
	assert.Equal(t, created.ID, foundByID.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	user := createTestUser(t)

	_, err := repo.Create(ctx, &domain.User{
		FullName:     "Impostor",
		Email:        user.Email,
		PasswordHash: "otherhash",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	_, err := repo.GetByEmail(ctx, "nonexistent@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
