// Package testutil provides the in-memory database the package tests
// run against.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB swaps a fresh in-memory SQLite database into the global
// db.DB handle and migrates the schema. Each call gets its own named
// memory database so tests do not see each other's rows.
func OpenTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	db.DB = gdb

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
}

// NewUser inserts a user with a real bcrypt hash of "secret123".
func NewUser(t *testing.T, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)

	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}

	return &user
}

// NewCalendar inserts a canonical calendar owned by ownerID.
func NewCalendar(t *testing.T, ownerID uint, name string) *models.Calendar {
	t.Helper()

	calendar := models.Calendar{
		Name:    name,
		Color:   "#a2b9ee",
		OwnerID: ownerID,
	}

	if err := db.DB.Create(&calendar).Error; err != nil {
		t.Fatalf("creating calendar %s: %v", name, err)
	}

	return &calendar
}
