package entities

// Subscriber is one notification delivery endpoint. Feed scopes the
// subscription to a single source; empty means every source. Tags is an
// optional comma-joined filter: a subscriber with tags only receives
// notifications about postings carrying at least one of them.
type Subscriber struct {
	ChannelKind string `gorm:"primaryKey"`
	ChannelID   string `gorm:"primaryKey"`
	Feed        string `gorm:"primaryKey"`
	Tags        string
}
