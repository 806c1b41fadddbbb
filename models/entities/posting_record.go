package entities

import "time"

// PostingRecord is the persisted copy of a snapshot posting, kept so the
// service starts warm after a restart. Position preserves snapshot order.
type PostingRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Feed        string `gorm:"index"`
	SourceKey   string
	CampYear    string
	Name        string
	Institute   string
	Description string
	Deadline    *time.Time
	Website     string
	Tags        string
	Position    int
}
