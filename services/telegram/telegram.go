package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"camp-tracker/services/campfeed"
	"camp-tracker/services/notifier"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/rs/zerolog/log"
)

func New(token string, campService campfeed.Service, notifService notifier.Service) (*Impl, error) {
	if token == "" {
		return &Impl{}, ErrTokenIsMissing
	}

	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return &Impl{}, ErrBotNotInitialized
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Warn().Err(err).Msg("an error occurred while handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})

	service := Impl{bot: b, campService: campService, notifService: notifService}
	dispatcher.AddHandler(handlers.NewCommand("start", service.startCmd))
	dispatcher.AddHandler(handlers.NewCommand("help", service.helpCmd))
	dispatcher.AddHandler(handlers.NewCommand("list", service.listCmd))
	dispatcher.AddHandler(handlers.NewCommand("upcoming", service.upcomingCmd))
	dispatcher.AddHandler(handlers.NewCommand("search", service.searchCmd))
	dispatcher.AddHandler(handlers.NewCommand("detail", service.detailCmd))
	dispatcher.AddHandler(handlers.NewCommand("tags", service.tagsCmd))
	dispatcher.AddHandler(handlers.NewCommand("sources", service.sourcesCmd))
	dispatcher.AddHandler(handlers.NewCommand("setdefault", service.setDefaultCmd))
	dispatcher.AddHandler(handlers.NewCommand("update", service.updateCmd))
	dispatcher.AddHandler(handlers.NewCommand("sub", service.subscribeCmd))
	dispatcher.AddHandler(handlers.NewCommand("unsub", service.unsubscribeCmd))
	dispatcher.AddHandler(handlers.NewCommand("status", service.statusCmd))
	dispatcher.AddHandler(handlers.NewCommand("", service.unknownCmd))

	service.updater = ext.NewUpdater(dispatcher, nil)

	return &service, nil
}

func (service *Impl) ListenAndDispatch() error {
	err := service.updater.StartPolling(service.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return ErrFailedToStartListening
	}

	service.updater.Idle()

	return nil
}

// Deliver implements the notifier's delivery capability for telegram
// endpoints.
func (service *Impl) Deliver(channelID string, text string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram channel id %q: %w", channelID, err)
	}

	_, err = service.bot.SendMessage(chatID, text, &gotgbot.SendMessageOpts{ParseMode: "Markdown"})
	return err
}

func (service *Impl) reply(ctx *ext.Context, text string) {
	_, err := service.bot.SendMessage(ctx.EffectiveChat.Id, text, &gotgbot.SendMessageOpts{ParseMode: "Markdown"})
	if err != nil {
		log.Error().Err(err).Int64("chatID", ctx.EffectiveChat.Id).Msg("cannot send reply")
	}
}

// commandArgs returns the tokens after the command itself.
func commandArgs(ctx *ext.Context) []string {
	args := ctx.Args()
	if len(args) <= 1 {
		return nil
	}
	return args[1:]
}

// parseTags accepts comma or space separated tags.
func parseTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		for _, tag := range strings.Split(arg, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (service *Impl) queryErrorMessage(err error) string {
	switch {
	case errors.Is(err, campfeed.ErrNoData):
		return noDataMessage
	case errors.Is(err, campfeed.ErrNotFound):
		return noResultsMessage
	case errors.Is(err, campfeed.ErrUnknownSource):
		return "Unknown data source. See /sources."
	default:
		return "Something went wrong, try again later."
	}
}

func (service *Impl) startCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "start").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	service.reply(ctx, welcomeMessage)
	return nil
}

func (service *Impl) helpCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "help").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	service.reply(ctx, helpMessage)
	return nil
}

func (service *Impl) unknownCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "unknown").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	service.reply(ctx, "Unknown command. Try /help.")
	return nil
}

func (service *Impl) listCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "list").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	tags := parseTags(commandArgs(ctx))

	postings, err := service.campService.List("", tags)
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}
	if len(postings) == 0 {
		service.reply(ctx, noResultsMessage)
		return nil
	}

	var sb strings.Builder
	sb.WriteString("== Camp postings ==\n")
	if len(tags) > 0 {
		sb.WriteString("Tags: " + strings.Join(tags, ", ") + "\n")
	}
	sb.WriteString("\n")
	for i, posting := range postings {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, notifier.FormatPosting(posting)))
	}
	service.reply(ctx, sb.String())
	return nil
}

func (service *Impl) upcomingCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "upcoming").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	tags := parseTags(commandArgs(ctx))

	postings, err := service.campService.Upcoming("", tags, 0)
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}
	if len(postings) == 0 {
		service.reply(ctx, "No deadlines in the next 30 days.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("== Upcoming deadlines ==\n\n")
	for i, posting := range postings {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, notifier.FormatPosting(posting)))
	}
	service.reply(ctx, sb.String())
	return nil
}

func (service *Impl) searchCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "search").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	args := commandArgs(ctx)
	if len(args) == 0 {
		service.reply(ctx, "Usage: /search <query>")
		return nil
	}
	query := strings.Join(args, " ")

	postings, err := service.campService.Search("", query)
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}
	if len(postings) == 0 {
		service.reply(ctx, noResultsMessage)
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("== Search: %s ==\n\n", query))
	for i, posting := range postings {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, notifier.FormatPosting(posting)))
	}
	service.reply(ctx, sb.String())
	return nil
}

func (service *Impl) detailCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "detail").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	args := commandArgs(ctx)
	if len(args) == 0 {
		service.reply(ctx, "Usage: /detail <name>")
		return nil
	}

	posting, err := service.campService.Detail("", strings.Join(args, " "))
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}

	service.reply(ctx, "== Posting detail ==\n\n"+notifier.FormatPosting(posting))
	return nil
}

func (service *Impl) tagsCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "tags").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")

	tags, err := service.campService.Tags("")
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}
	if len(tags) == 0 {
		service.reply(ctx, "No tags defined in this source.")
		return nil
	}

	service.reply(ctx, "Available tags:\n"+strings.Join(tags, ", "))
	return nil
}

func (service *Impl) sourcesCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "sources").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")

	feedSources, err := service.campService.Sources()
	if err != nil || len(feedSources) == 0 {
		service.reply(ctx, "No data sources configured.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Configured sources:\n")
	for _, source := range feedSources {
		marker := ""
		if source.IsDefault {
			marker = " (default)"
		}
		sb.WriteString(fmt.Sprintf("- %s%s\n", source.Name, marker))
	}
	service.reply(ctx, sb.String())
	return nil
}

func (service *Impl) setDefaultCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "setdefault").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	args := commandArgs(ctx)
	if len(args) == 0 {
		service.reply(ctx, "Usage: /setdefault <source>")
		return nil
	}

	if err := service.campService.SetDefaultSource(args[0]); err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}

	service.reply(ctx, fmt.Sprintf("Default source is now: %s", args[0]))
	return nil
}

func (service *Impl) updateCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "update").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")

	source, err := service.campService.DefaultSource()
	if err != nil {
		service.reply(ctx, service.queryErrorMessage(err))
		return nil
	}

	refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	diff, err := service.campService.Refresh(refreshCtx, source.Name)
	if err != nil {
		service.reply(ctx, "Update failed, try again later or check the network.")
		return nil
	}

	service.reply(ctx, fmt.Sprintf("Update done: %d new, %d changed, %d removed.",
		len(diff.Added), len(diff.Changed), len(diff.Removed)))
	return nil
}

func (service *Impl) subscribeCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "sub").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	tags := parseTags(commandArgs(ctx))
	chatID := strconv.FormatInt(ctx.EffectiveChat.Id, 10)

	if err := service.notifService.Subscribe(ChannelKind, chatID, "", tags); err != nil {
		log.Error().Err(err).Int64("chatID", ctx.EffectiveChat.Id).Msg("error on subscribe")
		service.reply(ctx, "Could not register the subscription, try again later.")
		return nil
	}

	if len(tags) > 0 {
		service.reply(ctx, "Subscribed. You will be notified about postings tagged: "+strings.Join(tags, ", "))
	} else {
		service.reply(ctx, "Subscribed. You will be notified about every posting update.")
	}
	return nil
}

func (service *Impl) unsubscribeCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "unsub").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	chatID := strconv.FormatInt(ctx.EffectiveChat.Id, 10)

	if err := service.notifService.Unsubscribe(ChannelKind, chatID, ""); err != nil {
		log.Error().Err(err).Int64("chatID", ctx.EffectiveChat.Id).Msg("error on unsubscribe")
	}
	service.reply(ctx, "Unsubscribed. You will no longer receive notifications.")
	return nil
}

func (service *Impl) statusCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "status").Int64("chatID", ctx.EffectiveChat.Id).Msg("command received")
	chatID := strconv.FormatInt(ctx.EffectiveChat.Id, 10)

	subs, err := service.notifService.Subscriptions(ChannelKind, chatID)
	if err != nil || len(subs) == 0 {
		service.reply(ctx, "You have no active subscription. Use /sub to get notified.")
		return nil
	}

	sub := subs[0]
	if sub.Tags != "" {
		service.reply(ctx, "You are subscribed with the tag filter: "+sub.Tags)
	} else {
		service.reply(ctx, "You are subscribed to all posting updates.")
	}
	return nil
}
