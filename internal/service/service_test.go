package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/expensio/expensio/internal/models"
	"github.com/expensio/expensio/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A fresh connection would see a fresh in-memory database, so pin the
	// pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Expense{}))
	return db
}

func newTestTokenService() *TokenService {
	return &TokenService{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Repo:   &repo.GormRepo{DB: newTestDB(t)},
		Tokens: newTestTokenService(),
	}
}

func newTestExpenseService(t *testing.T) *ExpenseService {
	t.Helper()

	return &ExpenseService{
		Repo: &repo.GormRepo{DB: newTestDB(t)},
	}
}
