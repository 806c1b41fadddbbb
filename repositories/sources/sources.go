package sources

import (
	"camp-tracker/models/entities"
	"camp-tracker/utils/databases"

	"gorm.io/gorm"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

func (repo *Impl) FetchAll() ([]entities.FeedSource, error) {
	var feedSources []entities.FeedSource
	response := repo.db.GetDB().Model(&entities.FeedSource{}).Order("name").Find(&feedSources)
	return feedSources, response.Error
}

func (repo *Impl) Get(name string) (entities.FeedSource, error) {
	var source entities.FeedSource
	result := repo.db.GetDB().Where("name = ?", name).First(&source)
	return source, result.Error
}

func (repo *Impl) GetDefault() (entities.FeedSource, error) {
	var source entities.FeedSource
	result := repo.db.GetDB().Where("is_default = ?", true).First(&source)
	return source, result.Error
}

func (repo *Impl) Create(source entities.FeedSource) error {
	return repo.db.GetDB().Create(&source).Error
}

func (repo *Impl) Save(source entities.FeedSource) error {
	return repo.db.GetDB().
		Model(&source).
		Where("name = ?", source.Name).
		Update("last_update", source.LastUpdate).
		Error
}

// SetDefault flips the default flag to the named source. At most one source
// is default at a time.
func (repo *Impl) SetDefault(name string) error {
	return repo.db.GetDB().Transaction(func(tx *gorm.DB) error {
		var source entities.FeedSource
		if err := tx.Where("name = ?", name).First(&source).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.FeedSource{}).Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		return tx.Model(&entities.FeedSource{}).Where("name = ?", name).
			Update("is_default", true).Error
	})
}

func (repo *Impl) Count() int64 {
	count := new(int64)
	repo.db.GetDB().Model(&entities.FeedSource{}).Count(count)

	return *count
}
