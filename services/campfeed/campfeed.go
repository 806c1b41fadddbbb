package campfeed

import (
	"context"
	"net/http"
	"time"

	"camp-tracker/models/constants"
	"camp-tracker/models/entities"
	"camp-tracker/pkg/observer"
	"camp-tracker/repositories/postings"
	"camp-tracker/repositories/sources"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(scheduler gocron.Scheduler, sourceRepo sources.Repository,
	postingRepo postings.Repository) (*Impl, error) {
	service := &Impl{
		client: &http.Client{
			Timeout: time.Duration(viper.GetInt(constants.FetchTimeoutSeconds)) * time.Second,
		},
		store:       NewSnapshotStore(),
		sourceRepo:  sourceRepo,
		postingRepo: postingRepo,
		maxItems:    viper.GetInt(constants.MaxDisplayItems),
		windowDays:  viper.GetInt(constants.UpcomingWindowDays),
		expiryDays:  viper.GetInt(constants.ExpiryNoticeDays),
	}
	service.observers = map[observer.Observer]struct{}{}

	if service.sourceRepo.Count() == 0 {
		err := service.sourceRepo.Create(entities.FeedSource{
			Name:      viper.GetString(constants.DefaultSourceName),
			URL:       viper.GetString(constants.RemoteFeedURL),
			IsDefault: true,
		})
		if err != nil {
			log.Error().Err(err).Msg("Error on seeding default source")
		}
	}

	service.warmStart()

	interval := time.Duration(viper.GetInt(constants.UpdateInterval)) * time.Minute
	_, errJob := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { service.RefreshAll(context.Background()) }),
		gocron.WithName("Refresh camp postings"),
	)
	if errJob != nil {
		return nil, errJob
	}

	return service, nil
}

func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

func (service *Impl) notify(e observer.Event) {
	for o := range service.observers {
		o.OnNotify(e)
	}
}

// warmStart loads the persisted copy of each feed so queries answer before
// the first fetch and the first refresh diffs against pre-restart state.
func (service *Impl) warmStart() {
	feedSources, err := service.sourceRepo.FetchAll()
	if err != nil {
		log.Error().Err(err).Msg("Cannot list sources for warm start")
		return
	}

	for _, source := range feedSources {
		records, errFetch := service.postingRepo.FetchByFeed(source.Name)
		if errFetch != nil {
			log.Error().Err(errFetch).
				Str(constants.LogFeedName, source.Name).
				Msgf("Cannot load persisted postings")
			continue
		}
		if len(records) == 0 {
			continue
		}

		service.store.Replace(source.Name, &entities.FeedSnapshot{
			Feed:      source.Name,
			FetchedAt: source.LastUpdate,
			Postings:  fromRecords(records),
		})
		log.Info().
			Str(constants.LogFeedName, source.Name).
			Int(constants.LogPostingCount, len(records)).
			Msgf("Warm start from persisted postings")
	}
}

// RefreshAll refreshes every configured source. Failures are logged and
// swallowed; a broken feed keeps its last good snapshot.
func (service *Impl) RefreshAll(ctx context.Context) {
	feedSources, err := service.sourceRepo.FetchAll()
	if err != nil {
		log.Error().Err(err).Msg("Cannot list sources to refresh")
		return
	}

	for _, source := range feedSources {
		if _, errRefresh := service.Refresh(ctx, source.Name); errRefresh != nil {
			log.Error().Err(errRefresh).
				Str(constants.LogFeedName, source.Name).
				Str(constants.LogFeedURL, source.URL).
				Msgf("Refresh failed, keeping last good snapshot")
		}
	}
}

// Refresh runs one fetch-normalize-diff-swap cycle for a feed. Concurrent
// calls for the same feed collapse into the in-flight cycle and share its
// result.
func (service *Impl) Refresh(ctx context.Context, feed string) (*entities.Diff, error) {
	result, err, _ := service.group.Do(feed, func() (any, error) {
		return service.refresh(ctx, feed)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.Diff), nil
}

func (service *Impl) refresh(ctx context.Context, feed string) (*entities.Diff, error) {
	source, err := service.sourceRepo.Get(feed)
	if err != nil {
		return nil, ErrUnknownSource
	}

	payload, err := service.fetch(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	normalized, err := normalize(payload, feed)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		// Shutdown mid-cycle: discard the result, never swap a snapshot in.
		return nil, ctx.Err()
	}

	snap := &entities.FeedSnapshot{Feed: feed, FetchedAt: time.Now(), Postings: normalized}
	prev, _ := service.store.Current(feed)
	diff := computeDiff(feed, prev, snap)

	service.store.Replace(feed, snap)

	if errPersist := service.postingRepo.ReplaceForFeed(feed, toRecords(snap)); errPersist != nil {
		log.Error().Err(errPersist).
			Str(constants.LogFeedName, feed).
			Msgf("Cannot persist snapshot, warm start will lag behind")
	}

	source.LastUpdate = snap.FetchedAt
	if errSave := service.sourceRepo.Save(source); errSave != nil {
		log.Error().Err(errSave).
			Str(constants.LogFeedName, feed).
			Msgf("Cannot update source fetch time")
	}

	log.Info().
		Str(constants.LogFeedName, feed).
		Int(constants.LogPostingCount, len(snap.Postings)).
		Int(constants.LogDiffAdded, len(diff.Added)).
		Int(constants.LogDiffRemoved, len(diff.Removed)).
		Int(constants.LogDiffChanged, len(diff.Changed)).
		Msgf("Snapshot swapped")

	service.notify(observer.NewFeedRefreshedEvent(feed, diff))

	if expiring := expiringSoon(snap, time.Now(), service.expiryDays); len(expiring) > 0 {
		service.notify(observer.NewDeadlineApproachingEvent(feed, expiring))
	}

	return diff, nil
}

// expiringSoon returns the postings whose deadline falls within the notice
// window.
func expiringSoon(snap *entities.FeedSnapshot, now time.Time, days int) []entities.Posting {
	limit := now.AddDate(0, 0, days)

	var result []entities.Posting
	for _, posting := range snap.Postings {
		if posting.Deadline == nil {
			continue
		}
		if posting.Deadline.Before(now) || posting.Deadline.After(limit) {
			continue
		}
		result = append(result, posting)
	}
	return result
}

func (service *Impl) Sources() ([]entities.FeedSource, error) {
	return service.sourceRepo.FetchAll()
}

func (service *Impl) DefaultSource() (entities.FeedSource, error) {
	source, err := service.sourceRepo.GetDefault()
	if err != nil {
		return entities.FeedSource{}, ErrUnknownSource
	}
	return source, nil
}

func (service *Impl) SetDefaultSource(name string) error {
	if err := service.sourceRepo.SetDefault(name); err != nil {
		return ErrUnknownSource
	}
	return nil
}
