package models

import (
	"time"

	"gorm.io/gorm"
)

// AttachmentModel tracks uploaded media referenced by image/file/gallery
// fields. Attachments use a numeric key because field values store the id
// as a number (or a comma-separated list of numbers for galleries).
type AttachmentModel struct {
	ID        int            `json:"id"        gorm:"primaryKey;autoIncrement"`
	FileName  string         `json:"file_name" gorm:"not null"`
	MimeType  string         `json:"mime_type"`
	Size      int64          `json:"size"`
	URL       string         `json:"url"       gorm:"index;not null"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"modified"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

func (AttachmentModel) TableName() string { return "attachments" }
