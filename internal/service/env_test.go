package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qnrlabs/order_service/internal/hash"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/tokens"
)

type testEnv struct {
	db        *gorm.DB
	rp        *repo.GormRepo
	codec     *tokens.Codec
	auth      *AuthService
	orders    *OrderService
	blacklist *TokenBlacklistService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.BlacklistedToken{}))

	rp := &repo.GormRepo{DB: db}
	codec := &tokens.Codec{Secret: []byte("test-jwt-secret"), TTL: 15 * time.Minute}
	blacklist := &TokenBlacklistService{Repo: rp}

	return &testEnv{
		db:        db,
		rp:        rp,
		codec:     codec,
		blacklist: blacklist,
		auth: &AuthService{
			Repo:      rp,
			Codec:     codec,
			Blacklist: blacklist,
		},
		orders: &OrderService{Repo: rp},
	}
}

func (env *testEnv) createUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: pwHash, Role: role}
	require.NoError(t, env.db.Create(user).Error)
	return user
}
