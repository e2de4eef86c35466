package def

import (
	"github.com/bwmarrin/discordgo"
)

var manageMessages int64 = discordgo.PermissionManageMessages

// RefreshCommand re-registers the command set.
var RefreshCommand = &discordgo.ApplicationCommand{
	Name:                     "refresh",
	Description:              "Re-register the bot commands",
	DefaultMemberPermissions: &manageMessages,
}

// ClearCommand purges the request channel.
var ClearCommand = &discordgo.ApplicationCommand{
	Name:                     "clear",
	Description:              "Delete every message in the clips request channel",
	DefaultMemberPermissions: &manageMessages,
}
