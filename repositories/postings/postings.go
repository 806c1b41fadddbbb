package postings

import (
	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"

	"gorm.io/gorm"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

// ReplaceForFeed swaps the persisted copy of a feed snapshot in one
// transaction, so a crash mid-write never leaves a mixed state on disk.
func (repo *Impl) ReplaceForFeed(feed string, records []entities.PostingRecord) error {
	return repo.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feed = ?", feed).Delete(&entities.PostingRecord{}).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		return tx.Create(&records).Error
	})
}

func (repo *Impl) FetchByFeed(feed string) ([]entities.PostingRecord, error) {
	var records []entities.PostingRecord
	result := repo.db.GetDB().Where("feed = ?", feed).Order("position").Find(&records)
	return records, result.Error
}

func (repo *Impl) Count() int64 {
	count := new(int64)
	repo.db.GetDB().Model(&entities.PostingRecord{}).Count(count)

	return *count
}
