package model

import "time"

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Email string `gorm:"column:email;type:varchar(255);not null;unique" json:"email"`

	Password string `gorm:"column:pass_word;type:varchar(255);not null" json:"-"`

	// IsActive is set once the verification link has been followed.
	IsActive bool `gorm:"column:is_active;not null;default:false" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
