package def

import "github.com/bwmarrin/discordgo"

var FileRequestCommand = &discordgo.ApplicationCommand{
	Name:        "filerequest",
	Description: "Submit a video file for review",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        "file",
			Description: "mp4 video",
			Required:    true,
		},
	},
}
