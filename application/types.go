package application

import (
	campfeedService "camp-tracker/services/campfeed"
	telegramService "camp-tracker/services/telegram"
	"camp-tracker/utils/databases"

	"github.com/go-co-op/gocron/v2"
)

type Application interface {
	Run()
	Shutdown()
}

type Impl struct {
	scheduler       gocron.Scheduler
	campService     campfeedService.Service
	telegramService telegramService.Service
	db              databases.SqlConnection
}
