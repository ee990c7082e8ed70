package repositories

import (
	"context"
	"testing"

	"escrow-broker.backend/internal/domain/entities"
	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CRUDAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUser("Alice@Escrow.io")
	u.Role = entities.UserRoleAdmin
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, newUser("bob@escrow.io")))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@escrow.io", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@escrow.io")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	u.Name = "Alice Updated"
	u.KYCStatus = entities.KYCVerified
	require.NoError(t, repo.Update(ctx, u))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "hash2"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice Updated", got.Name)
	require.Equal(t, entities.KYCVerified, got.KYCStatus)
	require.Equal(t, "hash2", got.PasswordHash)

	page := utils.GetPaginationParams(1, 10)
	items, total, err := repo.List(ctx, entities.UserFilter{}, page)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(2), total)

	items, total, err = repo.List(ctx, entities.UserFilter{Search: "ALICE"}, page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), total)

	items, _, err = repo.List(ctx, entities.UserFilter{Role: entities.UserRoleClient}, page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "bob@escrow.io", items[0].Email)

	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "missing@escrow.io")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, &entities.User{ID: id, Name: "x", Role: entities.UserRoleClient, KYCStatus: entities.KYCNotSubmitted})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.UpdatePassword(ctx, id, "hash")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.SoftDelete(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
