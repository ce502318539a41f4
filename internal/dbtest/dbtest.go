// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

// New returns a migrated in-memory database private to t.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// User inserts a user with the given username and role.
func User(t *testing.T, gdb *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Freelancer inserts a freelancer-role user with an attached Freelancer.
func Freelancer(t *testing.T, gdb *gorm.DB, username string) (*models.User, *models.Freelancer) {
	t.Helper()
	u := User(t, gdb, username, models.RoleFreelancer)
	f := &models.Freelancer{UserID: u.ID}
	if err := gdb.Create(f).Error; err != nil {
		t.Fatalf("create freelancer: %v", err)
	}
	return u, f
}

func Technology(t *testing.T, gdb *gorm.DB, name string) *models.Technology {
	t.Helper()
	tech := &models.Technology{Name: name}
	if err := gdb.Create(tech).Error; err != nil {
		t.Fatalf("create technology: %v", err)
	}
	return tech
}

func Gig(t *testing.T, gdb *gorm.DB, freelancerID uuid.UUID, title string) *models.Gig {
	t.Helper()
	g := &models.Gig{FreelancerID: freelancerID, Title: title, From: 10, To: 50, Revision: 3}
	if err := gdb.Create(g).Error; err != nil {
		t.Fatalf("create gig: %v", err)
	}
	return g
}

func Offer(t *testing.T, gdb *gorm.DB, gig *models.Gig, clientID uuid.UUID, status models.OfferStatus) *models.Offer {
	t.Helper()
	o := &models.Offer{
		GigID:        gig.ID,
		FreelancerID: gig.FreelancerID,
		UserID:       clientID,
		Price:        25,
		Status:       status,
		IsAccepted:   status != models.OfferStatusPending && status != models.OfferStatusRejected,
	}
	if err := gdb.Create(o).Error; err != nil {
		t.Fatalf("create offer: %v", err)
	}
	return o
}
