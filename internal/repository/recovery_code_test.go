// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCodes(t *testing.T, repo *repository.Repository) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.DB().Get(&n, `SELECT COUNT(*) FROM recuperacao_senha`))
	return n
}

func TestCreateRecoveryCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	expires := time.Now().Add(10 * time.Minute)

	err := repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "123456", ExpiresAt: expires})

	require.NoError(t, err)
	got, err := repo.GetRecoveryCode(ctx, "ana@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, expires.Unix(), got.ExpiresAt.Unix())
}

func TestCreateRecoveryCode_OnePerEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	expires := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "123456", ExpiresAt: expires}))

	err := repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "654321", ExpiresAt: expires})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Equal(t, int64(1), countCodes(t, repo))
}

func TestGetRecoveryCode_WrongCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}))

	_, err := repo.GetRecoveryCode(ctx, "ana@example.com", "000000")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRecoveryCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}))

	require.NoError(t, repo.DeleteRecoveryCode(ctx, "ana@example.com"))

	assert.Equal(t, int64(0), countCodes(t, repo))
}

func TestDeleteExpiredRecoveryCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "ana@example.com", Code: "123456", ExpiresAt: now.Add(time.Minute)}))

	require.NoError(t, repo.DeleteExpiredRecoveryCode(ctx, "ana@example.com", now))
	assert.Equal(t, int64(1), countCodes(t, repo))

	require.NoError(t, repo.DeleteExpiredRecoveryCode(ctx, "ana@example.com", now.Add(time.Minute)))
	assert.Equal(t, int64(0), countCodes(t, repo))
}

func TestDeleteExpiredRecoveryCodes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "a@example.com", Code: "111111", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "b@example.com", Code: "222222", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.CreateRecoveryCode(ctx, &models.RecoveryCode{Email: "c@example.com", Code: "333333", ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteExpiredRecoveryCodes(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = repo.GetRecoveryCode(ctx, "c@example.com", "333333")
	assert.NoError(t, err)
}
