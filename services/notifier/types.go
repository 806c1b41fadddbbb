package notifier

import (
	"camp-tracker/models/entities"
	"camp-tracker/pkg/observer"
	"camp-tracker/repositories/subscribers"

	"github.com/patrickmn/go-cache"
)

// Deliverer sends rendered text to one channel of its transport. Implemented
// per transport; the telegram service is the only one wired today.
type Deliverer interface {
	Deliver(channelID string, text string) error
}

type Service interface {
	observer.Observer

	RegisterDeliverer(kind string, deliverer Deliverer)
	Subscribe(kind string, id string, feed string, tags []string) error
	Unsubscribe(kind string, id string, feed string) error
	Subscriptions(kind string, id string) ([]entities.Subscriber, error)
}

type Impl struct {
	subRepo    subscribers.Repository
	deliverers map[string]Deliverer
	// noticed guards deadline notices: one per posting per subscriber per
	// day, whatever the refresh cadence.
	noticed  *cache.Cache
	maxItems int
}
