// Package testdb opens migrated in-memory sqlite databases and seeds fixtures.
package testdb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/infrastructure/db"
)

// Open returns a fresh database. A single connection keeps every query on
// the same in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"),
		db.WithLogLevel("silent"), db.WithMaxOpenConns(1, 1))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Branch(t *testing.T, gdb *gorm.DB, name string) *identity.Branch {
	t.Helper()
	b := &identity.Branch{Name: name, CountryISO2: "CO", PhoneCountryCode: "+57"}
	if err := gdb.Create(b).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	return b
}

func User(t *testing.T, gdb *gorm.DB, role identity.Role, branchID uint64) *identity.User {
	t.Helper()
	u := &identity.User{
		Name:         string(role),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		BranchID:     branchID,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func Client(t *testing.T, gdb *gorm.DB, agentID uint64, status client.Status) *client.Client {
	t.Helper()
	c := &client.Client{Name: "Client", Phone: "3000000000", Status: status, AgentID: agentID}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

// LoanRequest inserts l as-is, filling only unset enum fields.
func LoanRequest(t *testing.T, gdb *gorm.DB, l *loanrequest.LoanRequest) *loanrequest.LoanRequest {
	t.Helper()
	if l.PaymentDay == "" {
		l.PaymentDay = loanrequest.PaymentDay15_30
	}
	if l.Type == "" {
		l.Type = loanrequest.TypeQuincenal
	}
	if l.Amount == 0 {
		l.Amount = loanrequest.DefaultAmount(l.RequestedAmount)
	}
	if l.EndDateAt.IsZero() {
		l.EndDateAt = time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("seed loan request: %v", err)
	}
	return l
}
