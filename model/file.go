package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`

	// Name is the display name as uploaded; not unique.
	Name string `gorm:"column:name;size:255;not null" json:"name"`

	// Path is the blob store key, <user_id>/<uuid>.<ext>; never reused.
	Path string `gorm:"column:path;size:512;not null;uniqueIndex" json:"path"`

	Size int64  `gorm:"column:size;not null" json:"size"`
	Type string `gorm:"column:type;size:255;not null;default:''" json:"type"`

	FolderID *uint64 `gorm:"column:folder_id;index" json:"folder_id"`
	Folder   *Folder `gorm:"foreignKey:FolderID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "files"
}
