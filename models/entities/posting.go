package entities

import "time"

// Posting is one normalized admissions announcement from a remote feed.
type Posting struct {
	SourceKey   string
	CampYear    string
	Name        string
	Institute   string
	Description string
	// Deadline is nil when the feed carries no deadline or an unparseable one.
	Deadline *time.Time
	Website  string
	Tags     []string
}

// Identity is the cross-refresh identity key of a posting. Two postings are
// the same entity iff their identities match; content may still differ.
func (p Posting) Identity() string {
	return p.SourceKey + "\x1f" + p.CampYear + "\x1f" + p.Name + "\x1f" + p.Institute
}

// FeedSnapshot is the immutable set of postings of one feed at one point in
// time. It is never mutated after construction.
type FeedSnapshot struct {
	Feed      string
	FetchedAt time.Time
	Postings  []Posting
}

// Diff describes what changed between two consecutive snapshots of a feed.
type Diff struct {
	Feed    string
	Added   []Posting
	Removed []Posting
	Changed []Posting
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}
