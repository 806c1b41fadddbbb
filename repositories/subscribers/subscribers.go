package subscribers

import (
	"errors"
	"fmt"

	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"

	"gorm.io/gorm"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

func (repo *Impl) FetchAll() ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	result := repo.db.GetDB().Find(&subs)

	return subs, result.Error
}

// FetchForFeed returns the subscribers scoped to the given feed plus the
// global ones (empty feed scope).
func (repo *Impl) FetchForFeed(feed string) ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	result := repo.db.GetDB().Where("feed = ? OR feed = ?", feed, "").Find(&subs)

	return subs, result.Error
}

// SaveOrUpdate is idempotent: subscribing twice only refreshes the tag
// filter.
func (repo *Impl) SaveOrUpdate(subscriber entities.Subscriber) error {
	var existing entities.Subscriber

	result := repo.db.GetDB().
		Where("channel_kind = ? AND channel_id = ? AND feed = ?",
			subscriber.ChannelKind, subscriber.ChannelID, subscriber.Feed).
		First(&existing)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := repo.db.GetDB().Create(&subscriber).Error; err != nil {
				return fmt.Errorf("failed to create subscriber: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check subscriber existence: %w", result.Error)
	}

	if existing.Tags != subscriber.Tags {
		return repo.db.GetDB().Model(&existing).Update("tags", subscriber.Tags).Error
	}

	return nil
}

// Delete is idempotent: removing a non-subscriber is a no-op.
func (repo *Impl) Delete(subscriber entities.Subscriber) error {
	result := repo.db.GetDB().
		Where("channel_kind = ? AND channel_id = ? AND feed = ?",
			subscriber.ChannelKind, subscriber.ChannelID, subscriber.Feed).
		Delete(&entities.Subscriber{})
	return result.Error
}
