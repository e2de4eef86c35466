package handler

import (
	"github.com/bwmarrin/discordgo"
)

// HandlerFunc handles one interaction.
type HandlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Router dispatches slash commands to registered handlers. The bot sends no
// components or modals, so other interaction types are dropped.
type Router struct {
	commandHandlers map[string]HandlerFunc
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{commandHandlers: make(map[string]HandlerFunc)}
}

// AddCommandHandler registers a handler for a slash command.
func (r *Router) AddCommandHandler(name string, handler HandlerFunc) {
	r.commandHandlers[name] = handler
}

// OnInteractionCreate is the main interaction router.
// It should be registered as the primary interaction handler in bot.Run.
func (r *Router) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if handler, ok := r.commandHandlers[i.ApplicationCommandData().Name]; ok {
			handler(s, i)
		}
	}
}
