package identity

import (
	"regexp"
	"time"

	"loan-backoffice/internal/domain/apperror"
)

type Role string

const (
	RoleAgent         Role = "AGENT"
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleManager       Role = "MANAGER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAgent, RoleAdministrator, RoleManager:
		return true
	}
	return false
}

var (
	ErrDuplicateEmail = apperror.Conflict("a user with this email already exists")

	reISO2 = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Table: branches
type Branch struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"column:name;size:120;not null" json:"name"`
	CountryISO2      string    `gorm:"column:country_iso2;size:2;not null" json:"countryIso2"`
	PhoneCountryCode string    `gorm:"column:phone_country_code;size:8" json:"phoneCountryCode"`
	AcceptsInbound   bool      `gorm:"column:accepts_inbound;not null;default:false" json:"acceptsInbound"`
	AdministratorID  *uint64   `gorm:"column:administrator_id;index" json:"administratorId,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Branch) TableName() string { return "branches" }

// ValidISO2 reports whether code is an upper-case ISO 3166 alpha-2 code.
func ValidISO2(code string) bool { return reISO2.MatchString(code) }

// Table: users
type User struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"column:name;size:120;not null" json:"name"`
	Email        string `gorm:"column:email;size:190;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string `gorm:"column:password;size:100;not null" json:"-"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null" json:"role"`
	BranchID     uint64 `gorm:"column:branch_id;not null;index" json:"branchId"`
	// Ceiling for the principal of the agent's funded portfolio; 0 disables the check.
	FundedLimit int64     `gorm:"column:funded_limit;not null;default:0" json:"fundedLimit"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
