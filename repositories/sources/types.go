package sources

import (
	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"
)

type Repository interface {
	FetchAll() ([]entities.FeedSource, error)
	Get(name string) (entities.FeedSource, error)
	GetDefault() (entities.FeedSource, error)
	Create(source entities.FeedSource) error
	Save(source entities.FeedSource) error
	SetDefault(name string) error
	Count() int64
}

type Impl struct {
	db databases.SqlConnection
}
