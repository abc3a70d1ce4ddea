package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. RefreshToken holds the single active refresh
// credential; login and refresh overwrite it, logout clears it, so at most
// one session per account can refresh at any time.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	FirstName    string    `gorm:"not null"                  json:"firstName"`
	LastName     string    `gorm:"not null"                  json:"lastName"`
	RefreshToken string    `gorm:"index"                     json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Amount      float64   `gorm:"not null;index"             json:"amount"`
	Category    string    `gorm:"not null;index"             json:"category"`
	Date        time.Time `gorm:"not null;index"             json:"date"`
	Description string    `json:"description,omitempty"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"   json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e *Expense) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
