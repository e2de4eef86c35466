package def

import "github.com/bwmarrin/discordgo"

var DecisionsCommand = &discordgo.ApplicationCommand{
	Name:                     "decisions",
	Description:              "Show recent moderator decisions",
	DefaultMemberPermissions: &manageMessages,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "moderator",
			Description: "Only count this moderator's decisions",
			Required:    false,
		},
	},
}
