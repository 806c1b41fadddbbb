package subscribers

import (
	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"
)

type Repository interface {
	SaveOrUpdate(subscriber entities.Subscriber) error
	Delete(subscriber entities.Subscriber) error
	FetchAll() ([]entities.Subscriber, error)
	FetchForFeed(feed string) ([]entities.Subscriber, error)
}

type Impl struct {
	db databases.SqlConnection
}
