package bot

import (
	"clipbot/handler"
	"clipbot/handler/clips"

	"github.com/bwmarrin/discordgo"
)

func registerEventHandlers(s *discordgo.Session, router *handler.Router, h *clips.Handlers) {
	s.AddHandler(router.OnInteractionCreate)
	s.AddHandler(h.MessageReactionAdd)

	// 设置必要的intents
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
}
