package campfeed

import (
	"sort"

	"camp-tracker/models/entities"
)

// computeDiff classifies postings by their identity key. A posting present on
// both sides with different content counts as changed, not as remove+add.
// A nil previous snapshot is a cold start: the diff is empty by decision, an
// initial load is not "everything added".
func computeDiff(feed string, prev *entities.FeedSnapshot, next *entities.FeedSnapshot) *entities.Diff {
	diff := &entities.Diff{Feed: feed}
	if prev == nil {
		return diff
	}

	prevByID := make(map[string]entities.Posting, len(prev.Postings))
	for _, posting := range prev.Postings {
		prevByID[posting.Identity()] = posting
	}

	nextIDs := make(map[string]struct{}, len(next.Postings))
	for _, posting := range next.Postings {
		id := posting.Identity()
		nextIDs[id] = struct{}{}

		before, ok := prevByID[id]
		if !ok {
			diff.Added = append(diff.Added, posting)
			continue
		}
		if !sameContent(before, posting) {
			diff.Changed = append(diff.Changed, posting)
		}
	}

	for _, posting := range prev.Postings {
		if _, ok := nextIDs[posting.Identity()]; !ok {
			diff.Removed = append(diff.Removed, posting)
		}
	}

	return diff
}

// sameContent compares everything outside the identity key. Tag order is not
// significant.
func sameContent(a entities.Posting, b entities.Posting) bool {
	if a.Description != b.Description || a.Website != b.Website {
		return false
	}

	switch {
	case a.Deadline == nil && b.Deadline != nil,
		a.Deadline != nil && b.Deadline == nil:
		return false
	case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
		return false
	}

	return sameTagSet(a.Tags, b.Tags)
}

func sameTagSet(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
