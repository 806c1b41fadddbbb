package postings

import (
	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"
)

type Repository interface {
	ReplaceForFeed(feed string, records []entities.PostingRecord) error
	FetchByFeed(feed string) ([]entities.PostingRecord, error)
	Count() int64
}

type Impl struct {
	db databases.SqlConnection
}
