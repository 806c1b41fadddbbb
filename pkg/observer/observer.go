package observer

import "camp-tracker/models/entities"

type EventType int

const (
	FeedRefreshedEvent       EventType = 1
	DeadlineApproachingEvent EventType = 2
)

type Event struct {
	E    EventType
	Feed string
	// Diff is set on FeedRefreshedEvent.
	Diff *entities.Diff
	// Expiring is set on DeadlineApproachingEvent: postings due soon.
	Expiring []entities.Posting
}

func NewFeedRefreshedEvent(feed string, diff *entities.Diff) Event {
	return Event{E: FeedRefreshedEvent, Feed: feed, Diff: diff}
}

func NewDeadlineApproachingEvent(feed string, expiring []entities.Posting) Event {
	return Event{E: DeadlineApproachingEvent, Feed: feed, Expiring: expiring}
}

type Observer interface {
	OnNotify(Event)
}

type Notifier interface {
	Register(Observer)
	Notify(Event)
}
