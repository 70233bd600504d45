package model

import "time"

type Folder struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`

	// ParentID is nil for root-level folders. A non-nil parent must belong
	// to the same user.
	ParentID *uint64 `gorm:"column:parent_id;index" json:"parent_id"`
	Parent   *Folder `gorm:"foreignKey:ParentID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Folder) TableName() string {
	return "folders"
}
