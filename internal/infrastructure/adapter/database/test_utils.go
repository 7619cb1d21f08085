package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TestDBManager wraps a migrated in-memory SQLite database for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestConfig returns a config for a private in-memory SQLite database
func NewTestConfig() *Config {
	return &Config{
		Driver:        DriverSQLite,
		Path:          ":memory:",
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 0,
	}
}

// NewTestDBManager connects and migrates a fresh database, closing it when t ends
func NewTestDBManager(t testing.TB, logger coreport.Logger, timeProvider coreport.TimeProvider) *TestDBManager {
	t.Helper()

	config := NewTestConfig()
	manager := NewManager(config, logger, timeProvider, nil)

	ctx := context.Background()
	if _, err := manager.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// DB returns the underlying GORM handle
func (m *TestDBManager) DB() *gorm.DB {
	return m.Manager.DB()
}

// CreateTestUser inserts a user row without a credit row
func (m *TestDBManager) CreateTestUser(t testing.TB, id uint64) {
	t.Helper()

	user := model.User{
		UserID:    id,
		Email:     testEmail(id),
		Name:      "test user",
		CreatedAt: m.TimeProvider.Now(),
	}
	if err := m.DB().Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// SetCredits writes a credit row directly, bypassing the repository
func (m *TestDBManager) SetCredits(t testing.TB, id uint64, credits int64) {
	t.Helper()

	row := model.Credit{UserID: id, Credits: credits, LastUpdated: m.TimeProvider.Now()}
	if err := m.DB().Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		t.Fatalf("Failed to set credits: %v", err)
	}
}

// CountCredits returns the number of credit rows
func (m *TestDBManager) CountCredits(t testing.TB) int64 {
	t.Helper()

	var n int64
	if err := m.DB().Model(&model.Credit{}).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count credits: %v", err)
	}
	return n
}

func testEmail(id uint64) string {
	return "user" + strconv.FormatUint(id, 10) + "@example.com"
}
