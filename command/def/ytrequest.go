package def

import (
	"github.com/bwmarrin/discordgo"
)

var minOffset = 0.0

var YtRequestCommand = &discordgo.ApplicationCommand{
	Name:        "ytrequest",
	Description: "Submit a YouTube clip for review",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "url",
			Description: "YouTube link",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "start",
			Description: "Start of the clip in seconds",
			MinValue:    &minOffset,
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "end",
			Description: "End of the clip in seconds",
			MinValue:    &minOffset,
			Required:    false,
		},
	},
}
