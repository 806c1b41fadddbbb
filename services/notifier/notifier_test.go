package notifier

import (
	"errors"
	"sync"
	"testing"
	"time"

	"camp-tracker/models/entities"
	"camp-tracker/pkg/observer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscribers struct {
	mu   sync.Mutex
	subs []entities.Subscriber
}

func (f *fakeSubscribers) SaveOrUpdate(subscriber entities.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, sub := range f.subs {
		if sub.ChannelKind == subscriber.ChannelKind &&
			sub.ChannelID == subscriber.ChannelID &&
			sub.Feed == subscriber.Feed {
			f.subs[i] = subscriber
			return nil
		}
	}
	f.subs = append(f.subs, subscriber)
	return nil
}

func (f *fakeSubscribers) Delete(subscriber entities.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, sub := range f.subs {
		if sub.ChannelKind == subscriber.ChannelKind &&
			sub.ChannelID == subscriber.ChannelID &&
			sub.Feed == subscriber.Feed {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSubscribers) FetchAll() ([]entities.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.Subscriber(nil), f.subs...), nil
}

func (f *fakeSubscribers) FetchForFeed(feed string) ([]entities.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []entities.Subscriber
	for _, sub := range f.subs {
		if sub.Feed == feed || sub.Feed == "" {
			result = append(result, sub)
		}
	}
	return result, nil
}

type recordingDeliverer struct {
	mu         sync.Mutex
	deliveries map[string][]string
	failFor    map[string]struct{}
}

func newRecordingDeliverer() *recordingDeliverer {
	return &recordingDeliverer{
		deliveries: map[string][]string{},
		failFor:    map[string]struct{}{},
	}
}

func (d *recordingDeliverer) Deliver(channelID string, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.failFor[channelID]; ok {
		return errors.New("transport says no")
	}
	d.deliveries[channelID] = append(d.deliveries[channelID], text)
	return nil
}

func (d *recordingDeliverer) count(channelID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.deliveries[channelID])
}

func deadlinePosting(name string, due time.Time, tags ...string) entities.Posting {
	return entities.Posting{
		SourceKey: "csbaoyan",
		CampYear:  "camp2025",
		Name:      name,
		Deadline:  &due,
		Tags:      tags,
	}
}

func newTestNotifier(t *testing.T) (*Impl, *fakeSubscribers, *recordingDeliverer) {
	t.Helper()
	subRepo := &fakeSubscribers{}
	service := New(subRepo)
	deliverer := newRecordingDeliverer()
	service.RegisterDeliverer("test", deliverer)
	return service, subRepo, deliverer
}

func TestFanOutExactlyOncePerSubscriber(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", nil))
	require.NoError(t, service.Subscribe("test", "2", "", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10), "985")},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 1, deliverer.count("1"))
	assert.Equal(t, 1, deliverer.count("2"))
}

func TestEmptyDiffSendsNothing(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", nil))

	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", &entities.Diff{Feed: "csbaoyan"}))

	assert.Equal(t, 0, deliverer.count("1"))
}

func TestDeliveryFailureIsIsolated(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "broken", "", nil))
	require.NoError(t, service.Subscribe("test", "healthy", "", nil))
	deliverer.failFor["broken"] = struct{}{}

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10))},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 1, deliverer.count("healthy"))
	assert.Equal(t, 0, deliverer.count("broken"))
}

func TestSubscriberTagFilter(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "985-only", "", []string{"985"}))
	require.NoError(t, service.Subscribe("test", "everything", "", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("深圳大学", time.Now().AddDate(0, 0, 10), "211")},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 0, deliverer.count("985-only"), "no matching tag, no message")
	assert.Equal(t, 1, deliverer.count("everything"))
}

func TestFeedScopedSubscription(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "other-feed", "another", nil))
	require.NoError(t, service.Subscribe("test", "this-feed", "csbaoyan", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10))},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 0, deliverer.count("other-feed"))
	assert.Equal(t, 1, deliverer.count("this-feed"))
}

func TestGlobalAndFeedScopedRowsDeliverOnce(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", nil))
	require.NoError(t, service.Subscribe("test", "1", "csbaoyan", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10), "985")},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 1, deliverer.count("1"), "one endpoint, one message per cycle")

	expiring := []entities.Posting{deadlinePosting("北京大学", time.Now().Add(48*time.Hour))}
	service.OnNotify(observer.NewDeadlineApproachingEvent("csbaoyan", expiring))

	assert.Equal(t, 2, deliverer.count("1"), "deadline notice also collapses the two rows")
}

func TestFeedScopedTagFilterWinsOverGlobalRow(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", nil))
	require.NoError(t, service.Subscribe("test", "1", "csbaoyan", []string{"985"}))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("深圳大学", time.Now().AddDate(0, 0, 10), "211")},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 0, deliverer.count("1"), "scoped filter applies, not the catch-all row")
}

// gatedDeliverer parks the first delivery until released, so a test can act
// in the middle of a fan-out.
type gatedDeliverer struct {
	inner   *recordingDeliverer
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (d *gatedDeliverer) Deliver(channelID string, text string) error {
	d.once.Do(func() { close(d.started) })
	<-d.release
	return d.inner.Deliver(channelID, text)
}

func TestSubscriberAddedMidFanOut(t *testing.T) {
	subRepo := &fakeSubscribers{}
	service := New(subRepo)
	deliverer := newRecordingDeliverer()
	gated := &gatedDeliverer{
		inner:   deliverer,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	service.RegisterDeliverer("test", gated)
	require.NoError(t, service.Subscribe("test", "early", "", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10))},
	}

	done := make(chan struct{})
	go func() {
		service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))
		close(done)
	}()

	<-gated.started
	require.NoError(t, service.Subscribe("test", "late", "", nil))
	close(gated.release)
	<-done

	assert.Equal(t, 1, deliverer.count("early"))
	assert.LessOrEqual(t, deliverer.count("late"), 1, "a late subscriber gets this cycle at most once")
}

func TestExpiringNoticeAtMostOncePerDay(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", nil))

	expiring := []entities.Posting{deadlinePosting("清华大学", time.Now().Add(48*time.Hour))}
	service.OnNotify(observer.NewDeadlineApproachingEvent("csbaoyan", expiring))
	service.OnNotify(observer.NewDeadlineApproachingEvent("csbaoyan", expiring))

	assert.Equal(t, 1, deliverer.count("1"), "second cycle of the day is silent")
}

func TestUnknownChannelKindIsSkipped(t *testing.T) {
	service, _, deliverer := newTestNotifier(t)
	require.NoError(t, service.Subscribe("carrier-pigeon", "coo", "", nil))
	require.NoError(t, service.Subscribe("test", "1", "", nil))

	diff := &entities.Diff{
		Feed:  "csbaoyan",
		Added: []entities.Posting{deadlinePosting("清华大学", time.Now().AddDate(0, 0, 10))},
	}
	service.OnNotify(observer.NewFeedRefreshedEvent("csbaoyan", diff))

	assert.Equal(t, 1, deliverer.count("1"))
}

func TestSubscribeIdempotentAndUnsubscribeNoop(t *testing.T) {
	service, subRepo, _ := newTestNotifier(t)

	require.NoError(t, service.Subscribe("test", "1", "", []string{"985"}))
	require.NoError(t, service.Subscribe("test", "1", "", []string{"985"}))

	subs, err := subRepo.FetchAll()
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	require.NoError(t, service.Unsubscribe("test", "1", ""))
	require.NoError(t, service.Unsubscribe("test", "1", ""), "removing a non-subscriber is fine")

	subs, err = subRepo.FetchAll()
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubscriptionsLookup(t *testing.T) {
	service, _, _ := newTestNotifier(t)
	require.NoError(t, service.Subscribe("test", "1", "", []string{"985", "C9"}))
	require.NoError(t, service.Subscribe("test", "2", "", nil))

	subs, err := service.Subscriptions("test", "1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "985,C9", subs[0].Tags)
}
