// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string   `json:"first_name" gorm:"size:30"`
	LastName     string   `json:"last_name" gorm:"size:30"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(10);default:'buyer'"`
	IsActive     bool     `json:"is_active" gorm:"default:false"`
	IsStaff      bool     `json:"is_staff" gorm:"default:false"`

	// Relationships
	Shop     *Shop     `json:"shop,omitempty" gorm:"foreignKey:UserID"`
	Contacts []Contact `json:"contacts,omitempty" gorm:"foreignKey:UserID"`
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// PasswordResetToken is a single-use ticket mailed to the user; it expires
// 24 hours after issue and is deleted once the reset is confirmed.
type PasswordResetToken struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Token     string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Contact is a shipping address. Rows are never deduplicated: every order
// placement creates a fresh one so the order keeps the address as entered.
type Contact struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	City      string    `json:"city" gorm:"size:50;not null"`
	Street    string    `json:"street" gorm:"size:100;not null"`
	House     string    `json:"house" gorm:"size:15;not null"`
	Structure string    `json:"structure,omitempty" gorm:"size:15"`
	Building  string    `json:"building,omitempty" gorm:"size:15"`
	Apartment string    `json:"apartment,omitempty" gorm:"size:15"`
	Phone     string    `json:"phone" gorm:"size:20;not null"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
