package entities

import "time"

type FeedSource struct {
	Name       string `gorm:"primaryKey"`
	URL        string
	IsDefault  bool
	LastUpdate time.Time
}
