package campfeed

import (
	"sort"
	"strings"
	"time"

	"camp-tracker/models/entities"
)

// Queries run against the last committed snapshot and never block on an
// in-flight refresh.

func (service *Impl) List(feed string, tags []string) ([]entities.Posting, error) {
	snap, err := service.snapshotFor(feed)
	if err != nil {
		return nil, err
	}

	var result []entities.Posting
	for _, posting := range snap.Postings {
		if !hasAllTags(posting, tags) {
			continue
		}
		result = append(result, posting)
	}

	return service.truncate(result), nil
}

func (service *Impl) Upcoming(feed string, tags []string, windowDays int) ([]entities.Posting, error) {
	snap, err := service.snapshotFor(feed)
	if err != nil {
		return nil, err
	}

	if windowDays <= 0 {
		windowDays = service.windowDays
	}

	now := time.Now()
	limit := now.AddDate(0, 0, windowDays)

	var result []entities.Posting
	for _, posting := range snap.Postings {
		if posting.Deadline == nil {
			continue
		}
		if posting.Deadline.Before(now) || posting.Deadline.After(limit) {
			continue
		}
		if !hasAllTags(posting, tags) {
			continue
		}
		result = append(result, posting)
	}

	// Stable keeps snapshot order between equal deadlines.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Deadline.Before(*result[j].Deadline)
	})

	return service.truncate(result), nil
}

func (service *Impl) Search(feed string, query string) ([]entities.Posting, error) {
	snap, err := service.snapshotFor(feed)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)

	var result []entities.Posting
	for _, posting := range snap.Postings {
		if strings.Contains(strings.ToLower(posting.Name), needle) {
			result = append(result, posting)
		}
	}

	return service.truncate(result), nil
}

// Detail prefers an exact case-sensitive name match, then falls back to the
// first case-insensitive one.
func (service *Impl) Detail(feed string, name string) (entities.Posting, error) {
	snap, err := service.snapshotFor(feed)
	if err != nil {
		return entities.Posting{}, err
	}

	for _, posting := range snap.Postings {
		if posting.Name == name {
			return posting, nil
		}
	}

	lowered := strings.ToLower(name)
	for _, posting := range snap.Postings {
		if strings.ToLower(posting.Name) == lowered {
			return posting, nil
		}
	}

	return entities.Posting{}, ErrNotFound
}

func (service *Impl) Tags(feed string) ([]string, error) {
	snap, err := service.snapshotFor(feed)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, posting := range snap.Postings {
		for _, tag := range posting.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags, nil
}

func (service *Impl) snapshotFor(feed string) (*entities.FeedSnapshot, error) {
	feed, err := service.resolveFeed(feed)
	if err != nil {
		return nil, err
	}

	snap, ok := service.store.Current(feed)
	if !ok {
		return nil, ErrNoData
	}
	return snap, nil
}

func (service *Impl) resolveFeed(feed string) (string, error) {
	if feed != "" {
		return feed, nil
	}

	source, err := service.sourceRepo.GetDefault()
	if err != nil {
		return "", ErrUnknownSource
	}
	return source.Name, nil
}

func (service *Impl) truncate(result []entities.Posting) []entities.Posting {
	if service.maxItems > 0 && len(result) > service.maxItems {
		return result[:service.maxItems]
	}
	return result
}

// hasAllTags is conjunctive: every requested tag must be present.
func hasAllTags(posting entities.Posting, tags []string) bool {
	for _, wanted := range tags {
		found := false
		for _, tag := range posting.Tags {
			if tag == wanted {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
