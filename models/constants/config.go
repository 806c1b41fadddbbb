package constants

import (
	"github.com/rs/zerolog"
)

const (
	ExternalName = "camp-tracker"
	Version      = "1.0.0"

	ConfigFileName = ".env"

	// TELEGRAM BOT
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"

	// SQLITE_URL URL.
	SqliteURL = "SQLITE_URL"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Remote aggregator serving the camp postings JSON.
	RemoteFeedURL = "REMOTE_FEED_URL"

	// Name given to the seeded default source.
	DefaultSourceName = "DEFAULT_SOURCE_NAME"

	// Refresh interval in minutes.
	UpdateInterval = "UPDATE_INTERVAL"

	// Upper bound on postings per reply.
	MaxDisplayItems = "MAX_DISPLAY_ITEMS"

	// Window of the upcoming query, in days.
	UpcomingWindowDays = "UPCOMING_WINDOW_DAYS"

	// Postings due within this many days trigger a deadline notice.
	ExpiryNoticeDays = "EXPIRY_NOTICE_DAYS"

	// Remote fetch timeout in seconds.
	FetchTimeoutSeconds = "FETCH_TIMEOUT_SECONDS"

	// Cron tab to health.
	HealthCronTab = "HEALTH_CRON_TAB"

	defaultTelegramBotToken    = ""
	defaultSqliteURL           = "camp-tracker.db"
	defaultRemoteFeedURL       = "https://ddl.csbaoyan.top/config/schools.json"
	defaultSourceName          = "csbaoyan"
	defaultUpdateInterval      = 10
	defaultMaxDisplayItems     = 10
	defaultUpcomingWindowDays  = 30
	defaultExpiryNoticeDays    = 3
	defaultFetchTimeoutSeconds = 15
	defaultHealthCrontab       = "* * * * *"
	defaultLogLevel            = zerolog.InfoLevel
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		TelegramBotToken:    defaultTelegramBotToken,
		SqliteURL:           defaultSqliteURL,
		LogLevel:            defaultLogLevel.String(),
		RemoteFeedURL:       defaultRemoteFeedURL,
		DefaultSourceName:   defaultSourceName,
		UpdateInterval:      defaultUpdateInterval,
		MaxDisplayItems:     defaultMaxDisplayItems,
		UpcomingWindowDays:  defaultUpcomingWindowDays,
		ExpiryNoticeDays:    defaultExpiryNoticeDays,
		FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
		HealthCronTab:       defaultHealthCrontab,
	}
}
