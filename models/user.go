package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Administrators run the shop; senior administrators additionally
// manage reference data and other administrators.
const (
	RoleEmployee            = "employee"
	RoleAdministrator       = "administrator"
	RoleSeniorAdministrator = "senior_administrator"
)

// AdminRoles are the roles allowed to perform order administration
// (deletion, employee assignment, material removal).
var AdminRoles = []string{RoleAdministrator, RoleSeniorAdministrator}

// User represents a staff account in the system
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Auth0ID     string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	FullName    string         `gorm:"not null" json:"fullname"`
	PhoneNumber string         `json:"phone_number"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Role        string         `gorm:"not null;default:'employee'" json:"role"` // employee, administrator or senior_administrator
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator || u.Role == RoleSeniorAdministrator
}
