package campfeed

import (
	"testing"
	"time"

	"camp-tracker/models/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryService(snap *entities.FeedSnapshot) *Impl {
	service := &Impl{
		store:      NewSnapshotStore(),
		maxItems:   10,
		windowDays: 30,
	}
	if snap != nil {
		service.store.Replace(snap.Feed, snap)
	}
	return service
}

func deadlineIn(days int) *time.Time {
	t := time.Now().AddDate(0, 0, days)
	return &t
}

func TestListConjunctiveTagFilter(t *testing.T) {
	snap := snapshotOf(
		posting("清华大学", "985", "C9"),
		posting("北京大学", "985"),
		posting("深圳大学", "211"),
	)
	service := newQueryService(snap)

	both, err := service.List("csbaoyan", []string{"985", "C9"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "清华大学", both[0].Name)

	all, err := service.List("csbaoyan", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListTruncatesToMaxItems(t *testing.T) {
	items := make([]entities.Posting, 0, 15)
	for i := 0; i < 15; i++ {
		items = append(items, posting(string(rune('a'+i))))
	}
	service := newQueryService(snapshotOf(items...))

	result, err := service.List("csbaoyan", nil)
	require.NoError(t, err)
	assert.Len(t, result, 10)
	assert.Equal(t, "a", result[0].Name, "snapshot order kept")
}

func TestQueriesWithoutSnapshot(t *testing.T) {
	service := newQueryService(nil)

	_, err := service.List("csbaoyan", nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = service.Tags("csbaoyan")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = service.Detail("csbaoyan", "清华大学")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestUpcomingWindow(t *testing.T) {
	in := posting("in-window")
	in.Deadline = deadlineIn(29)
	out := posting("out-of-window")
	out.Deadline = deadlineIn(31)
	past := posting("expired")
	past.Deadline = deadlineIn(-1)
	undated := posting("no-deadline")

	service := newQueryService(snapshotOf(out, undated, past, in))

	result, err := service.Upcoming("csbaoyan", nil, 30)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "in-window", result[0].Name)
}

func TestUpcomingSortedAscendingStable(t *testing.T) {
	shared := deadlineIn(10)
	later := posting("later")
	later.Deadline = deadlineIn(20)
	first := posting("first-in-snapshot")
	first.Deadline = shared
	second := posting("second-in-snapshot")
	second.Deadline = shared

	service := newQueryService(snapshotOf(later, first, second))

	result, err := service.Upcoming("csbaoyan", nil, 30)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "first-in-snapshot", result[0].Name)
	assert.Equal(t, "second-in-snapshot", result[1].Name)
	assert.Equal(t, "later", result[2].Name)
}

func TestUpcomingWithTagFilter(t *testing.T) {
	tagged := posting("tagged", "985")
	tagged.Deadline = deadlineIn(5)
	other := posting("other", "211")
	other.Deadline = deadlineIn(5)

	service := newQueryService(snapshotOf(tagged, other))

	result, err := service.Upcoming("csbaoyan", []string{"985"}, 30)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "tagged", result[0].Name)
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	service := newQueryService(snapshotOf(
		posting("Tsinghua University"),
		posting("Peking University"),
		posting("清华大学"),
	))

	result, err := service.Search("csbaoyan", "UNIVERSITY")
	require.NoError(t, err)
	assert.Len(t, result, 2)

	result, err = service.Search("csbaoyan", "清华")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "清华大学", result[0].Name)
}

func TestDetailPrefersExactCaseMatch(t *testing.T) {
	service := newQueryService(snapshotOf(posting("THU"), posting("thu")))

	exact, err := service.Detail("csbaoyan", "thu")
	require.NoError(t, err)
	assert.Equal(t, "thu", exact.Name)

	fallback, err := service.Detail("csbaoyan", "Thu")
	require.NoError(t, err)
	assert.Equal(t, "THU", fallback.Name, "first case-insensitive match")

	_, err = service.Detail("csbaoyan", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagsUnionSorted(t *testing.T) {
	service := newQueryService(snapshotOf(
		posting("清华大学", "985", "C9"),
		posting("北京大学", "C9", "211"),
	))

	tags, err := service.Tags("csbaoyan")
	require.NoError(t, err)
	assert.Equal(t, []string{"211", "985", "C9"}, tags)
}
