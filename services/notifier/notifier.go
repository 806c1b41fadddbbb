package notifier

import (
	"strings"
	"sync"
	"time"

	"camp-tracker/models/constants"
	"camp-tracker/models/entities"
	"camp-tracker/pkg/observer"
	"camp-tracker/repositories/subscribers"
	"camp-tracker/utils/dates"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(subRepo subscribers.Repository) *Impl {
	return &Impl{
		subRepo:    subRepo,
		deliverers: map[string]Deliverer{},
		noticed:    cache.New(24*time.Hour, 48*time.Hour),
		maxItems:   viper.GetInt(constants.MaxDisplayItems),
	}
}

func (service *Impl) RegisterDeliverer(kind string, deliverer Deliverer) {
	service.deliverers[kind] = deliverer
}

func (service *Impl) Subscribe(kind string, id string, feed string, tags []string) error {
	return service.subRepo.SaveOrUpdate(entities.Subscriber{
		ChannelKind: kind,
		ChannelID:   id,
		Feed:        feed,
		Tags:        strings.Join(tags, ","),
	})
}

func (service *Impl) Unsubscribe(kind string, id string, feed string) error {
	return service.subRepo.Delete(entities.Subscriber{
		ChannelKind: kind,
		ChannelID:   id,
		Feed:        feed,
	})
}

func (service *Impl) Subscriptions(kind string, id string) ([]entities.Subscriber, error) {
	all, err := service.subRepo.FetchAll()
	if err != nil {
		return nil, err
	}

	var result []entities.Subscriber
	for _, sub := range all {
		if sub.ChannelKind == kind && sub.ChannelID == id {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (service *Impl) OnNotify(event observer.Event) {
	switch event.E {
	case observer.FeedRefreshedEvent:
		service.notifyDiff(event.Feed, event.Diff)
	case observer.DeadlineApproachingEvent:
		service.notifyExpiring(event.Feed, event.Expiring)
	}
}

// notifyDiff fans a refresh summary out to the feed's subscribers. The
// subscriber set is read once, so each endpoint is attempted at most once per
// cycle; one failing delivery never blocks the others.
func (service *Impl) notifyDiff(feed string, diff *entities.Diff) {
	if diff == nil || diff.Empty() {
		return
	}

	subs, err := service.subRepo.FetchForFeed(feed)
	if err != nil {
		log.Error().Err(err).Str(constants.LogFeedName, feed).Msgf("Cannot list subscribers")
		return
	}

	var wg sync.WaitGroup
	for _, sub := range dedupeEndpoints(subs, feed) {
		added := filterBySubscriberTags(diff.Added, sub)
		changed := filterBySubscriberTags(diff.Changed, sub)
		if len(added) == 0 && len(changed) == 0 {
			continue
		}

		text := renderDiff(feed, added, changed, service.maxItems)

		wg.Add(1)
		go func(sub entities.Subscriber, text string) {
			defer wg.Done()
			service.deliver(sub, text)
		}(sub, text)
	}
	wg.Wait()
}

// notifyExpiring sends deadline notices, at most once per posting per
// subscriber per day.
func (service *Impl) notifyExpiring(feed string, expiring []entities.Posting) {
	if len(expiring) == 0 {
		return
	}

	subs, err := service.subRepo.FetchForFeed(feed)
	if err != nil {
		log.Error().Err(err).Str(constants.LogFeedName, feed).Msgf("Cannot list subscribers")
		return
	}

	today := dates.DateToString(time.Now(), dates.DateFormat)

	var wg sync.WaitGroup
	for _, sub := range dedupeEndpoints(subs, feed) {
		var fresh []entities.Posting
		for _, posting := range filterBySubscriberTags(expiring, sub) {
			key := today + "\x1f" + sub.ChannelKind + "\x1f" + sub.ChannelID + "\x1f" + posting.Identity()
			if _, found := service.noticed.Get(key); found {
				continue
			}
			service.noticed.SetDefault(key, true)
			fresh = append(fresh, posting)
		}
		if len(fresh) == 0 {
			continue
		}

		text := renderExpiring(feed, fresh, service.maxItems)

		wg.Add(1)
		go func(sub entities.Subscriber, text string) {
			defer wg.Done()
			service.deliver(sub, text)
		}(sub, text)
	}
	wg.Wait()
}

func (service *Impl) deliver(sub entities.Subscriber, text string) {
	deliverer, ok := service.deliverers[sub.ChannelKind]
	if !ok {
		log.Warn().
			Str(constants.LogChannelKind, sub.ChannelKind).
			Str(constants.LogChannelID, sub.ChannelID).
			Msgf("No deliverer for channel kind, subscriber skipped")
		return
	}

	if err := deliverer.Deliver(sub.ChannelID, text); err != nil {
		log.Error().Err(err).
			Str(constants.LogChannelKind, sub.ChannelKind).
			Str(constants.LogChannelID, sub.ChannelID).
			Msgf("Delivery failed for one subscriber, continuing")
	}
}

// dedupeEndpoints collapses rows that point at the same (kind, id) endpoint,
// so an endpoint holding both a feed-scoped and a global subscription still
// gets one notification per cycle. The feed-scoped row's tag filter wins.
func dedupeEndpoints(subs []entities.Subscriber, feed string) []entities.Subscriber {
	byEndpoint := map[string]int{}

	var result []entities.Subscriber
	for _, sub := range subs {
		key := sub.ChannelKind + "\x1f" + sub.ChannelID
		index, ok := byEndpoint[key]
		if !ok {
			byEndpoint[key] = len(result)
			result = append(result, sub)
			continue
		}
		if result[index].Feed != feed && sub.Feed == feed {
			result[index] = sub
		}
	}
	return result
}

// filterBySubscriberTags applies the subscriber's optional tag filter: no
// tags means everything, otherwise any matching tag qualifies a posting.
func filterBySubscriberTags(list []entities.Posting, sub entities.Subscriber) []entities.Posting {
	if sub.Tags == "" {
		return list
	}

	wanted := map[string]struct{}{}
	for _, tag := range strings.Split(sub.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			wanted[tag] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return list
	}

	var result []entities.Posting
	for _, posting := range list {
		for _, tag := range posting.Tags {
			if _, ok := wanted[tag]; ok {
				result = append(result, posting)
				break
			}
		}
	}
	return result
}
