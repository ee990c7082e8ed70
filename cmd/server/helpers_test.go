package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/infrastructure/models"
	"escrow-broker.backend/pkg/crypto"
	"escrow-broker.backend/pkg/redis"
	"golang.org/x/crypto/bcrypt"
)

const testSessionKey = "0000000000000000000000000000000000000000000000000000000000000000"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "18080",
			Env:            "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			SessionEncryptionKey: testSessionKey,
			SuperAdminEmails:     []string{"root@escrow.io"},
		},
		Escrow: config.EscrowConfig{
			RequireKYC:             true,
			DefaultConfirmationTTL: 72 * time.Hour,
			ExpiryInterval:         time.Minute,
			FiatCurrencies:         []string{"USD"},
			CryptoCurrencies:       []string{"BTC", "ETH", "USDT"},
		},
		Mail:      config.MailConfig{AppURL: "http://localhost:3000", WorkerConcurrency: 1},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:server_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// useMiniredis points the shared Redis helpers at a throwaway server.
func useMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := redis.GetClient()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		redis.SetClient(prev)
		_ = client.Close()
	})
}

func fastHashing(t *testing.T) {
	t.Helper()
	crypto.SetHashCost(bcrypt.MinCost)
	t.Cleanup(func() { crypto.SetHashCost(crypto.DefaultCost) })
}
