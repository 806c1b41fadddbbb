package campfeed

import (
	"context"
	"errors"
	"net/http"

	"camp-tracker/models/entities"
	"camp-tracker/pkg/observer"
	"camp-tracker/repositories/postings"
	"camp-tracker/repositories/sources"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrFetch wraps network and HTTP failures while pulling a feed.
	ErrFetch = errors.New("failed to fetch feed")
	// ErrBadPayload marks a batch-level schema violation in the feed body.
	ErrBadPayload = errors.New("malformed feed payload")
	// ErrNoData is returned by queries issued before the first successful
	// refresh of a feed.
	ErrNoData = errors.New("no data fetched yet for this source")
	// ErrNotFound is returned by Detail when no posting matches.
	ErrNotFound = errors.New("posting not found")
	// ErrUnknownSource is returned for a feed name with no configuration.
	ErrUnknownSource = errors.New("unknown data source")
)

type Service interface {
	RegisterObserver(o observer.Observer)

	Refresh(ctx context.Context, feed string) (*entities.Diff, error)
	RefreshAll(ctx context.Context)

	Sources() ([]entities.FeedSource, error)
	DefaultSource() (entities.FeedSource, error)
	SetDefaultSource(name string) error

	List(feed string, tags []string) ([]entities.Posting, error)
	Upcoming(feed string, tags []string, windowDays int) ([]entities.Posting, error)
	Search(feed string, query string) ([]entities.Posting, error)
	Detail(feed string, name string) (entities.Posting, error)
	Tags(feed string) ([]string, error)
}

type Impl struct {
	client      *http.Client
	store       *SnapshotStore
	sourceRepo  sources.Repository
	postingRepo postings.Repository
	observers   map[observer.Observer]struct{}
	group       singleflight.Group
	maxItems    int
	windowDays  int
	expiryDays  int
}
