package models

import "time"

// PlateRecord is one stored recognition result.
type PlateRecord struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	RunID      string   `gorm:"size:64;index;not null"`
	Profile    string   `gorm:"size:16;not null"`
	FileName   string   `gorm:"size:255;not null;index"`
	Text       string   `gorm:"type:text;not null"`
	Confidence *float64 // nil when the profile does not score results
	Accepted   bool     `gorm:"index"`
}
