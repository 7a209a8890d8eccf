package model

import (
	"time"
)

type UserRole string

const (
	Reviewer UserRole = "reviewer"
	Admin    UserRole = "admin"
)

// User is a staff account: reviewers grade writing/speaking answers,
// admins also manage the question bank. Students never have accounts;
// they hold only their session code.
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('reviewer','admin');default:'reviewer'" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
