package telegram

import (
	"errors"

	"camp-tracker/services/campfeed"
	"camp-tracker/services/notifier"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// ChannelKind identifies telegram endpoints in the subscriber store.
const ChannelKind = "telegram"

var (
	ErrTokenIsMissing         = errors.New("telegram token is missing")
	ErrBotNotInitialized      = errors.New("telegram bot is not ready yet")
	ErrFailedToStartListening = errors.New("telegram bot can't start to listen command")
)

type Service interface {
	ListenAndDispatch() error
	Deliver(channelID string, text string) error
}

type Impl struct {
	bot          *gotgbot.Bot
	updater      *ext.Updater
	campService  campfeed.Service
	notifService notifier.Service
}
