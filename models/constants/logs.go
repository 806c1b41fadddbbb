package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogFeedName      = "feedName"
	LogFeedURL       = "feedURL"
	LogPostingName   = "postingName"
	LogPostingCount  = "postingCount"
	LogCampYear      = "campYear"
	LogChannelKind   = "channelKind"
	LogChannelID     = "channelID"
	LogDiffAdded     = "diffAdded"
	LogDiffRemoved   = "diffRemoved"
	LogDiffChanged   = "diffChanged"
	LogLevelFallback = zerolog.InfoLevel
)
