package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles a command handler with its pattern, match type,
// and middleware for registration.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the map of all bot commands keyed by their
// slash form. Aliases reuse the same handler under their own pattern.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) {
		handlers["/"+pattern] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	profileHandler := NewProfileHandler(deps)
	topHandler := NewTopHandler(deps)

	command("start", NewStartHandler(deps))
	command("help", NewHelpHandler(deps))
	command("profile", profileHandler)
	command("rank", profileHandler)
	command("rating", profileHandler)
	command("top", topHandler)
	command("leaderboard", topHandler)
	command("plus", NewPlusHandler(deps))
	command("sync_titles", NewSyncTitlesHandler(deps), AdminOnly(deps))

	return handlers
}
