package application

import (
	"context"

	"camp-tracker/models/constants"
	"camp-tracker/models/entities"
	postingRepo "camp-tracker/repositories/postings"
	sourceRepo "camp-tracker/repositories/sources"
	subscriberRepo "camp-tracker/repositories/subscribers"
	"camp-tracker/services/campfeed"
	"camp-tracker/services/health"
	"camp-tracker/services/notifier"
	"camp-tracker/services/telegram"
	"camp-tracker/utils/databases"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() (*Impl, error) {
	db := databases.New()
	if errDB := db.Run(); errDB != nil {
		return nil, errDB
	}

	errMigration := db.GetDB().AutoMigrate(&entities.FeedSource{}, &entities.PostingRecord{}, &entities.Subscriber{})
	if errMigration != nil {
		return nil, errMigration
	}

	scheduler, errScheduler := gocron.NewScheduler()
	if errScheduler != nil {
		return nil, errScheduler
	}

	// Repositories
	srcRepo := sourceRepo.New(db)
	postRepo := postingRepo.New(db)
	subRepo := subscriberRepo.New(db)

	campService, errCamp := campfeed.New(scheduler, srcRepo, postRepo)
	if errCamp != nil {
		return nil, errCamp
	}

	notifService := notifier.New(subRepo)

	telegramService, errTg := telegram.New(viper.GetString(constants.TelegramBotToken), campService, notifService)
	if errTg != nil {
		return nil, errTg
	}

	notifService.RegisterDeliverer(telegram.ChannelKind, telegramService)
	campService.RegisterObserver(notifService)

	if _, errHealth := health.New(scheduler); errHealth != nil {
		return nil, errHealth
	}

	return &Impl{
		scheduler:       scheduler,
		campService:     campService,
		telegramService: telegramService,
		db:              db,
	}, nil
}

func (app *Impl) Run() {
	app.scheduler.Start()
	go func() {
		if err := app.telegramService.ListenAndDispatch(); err != nil {
			log.Error().Err(err).Msg("Telegram listener stopped")
		}
	}()

	for _, job := range app.scheduler.Jobs() {
		scheduledTime, err := job.NextRun()
		if err == nil {
			log.Info().Msgf("%v scheduled at %v", job.Name(), scheduledTime)
		}
	}

	go app.campService.RefreshAll(context.Background())
}

func (app *Impl) Shutdown() {
	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	app.db.Shutdown()
	log.Info().Msgf("Application is no longer running")
}
