package command

import (
	"clipbot/command/def"
	"clipbot/model"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// AllCommands returns the commands to register. Submission commands whose
// source kind is disabled are left out.
func AllCommands(cfg model.ClipBot) []*discordgo.ApplicationCommand {
	var cmds []*discordgo.ApplicationCommand
	if cfg.YoutubeAllowed {
		cmds = append(cmds, def.YtRequestCommand)
	}
	if cfg.FileAllowed {
		cmds = append(cmds, def.FileRequestCommand)
	}
	return append(cmds, def.RefreshCommand, def.ClearCommand, def.DecisionsCommand)
}

// Registrar overwrites the registered command set.
type Registrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Sync registers the command set in every allowed guild, or globally when no
// guild is configured. Commands no longer in the set are removed.
func Sync(r Registrar, appID string, cfg model.Config) error {
	cmds := AllCommands(cfg.ClipBot)
	guilds := cfg.Commands.AllowGuilds
	if len(guilds) == 0 {
		guilds = []string{""}
	}
	for _, guildID := range guilds {
		if _, err := r.ApplicationCommandBulkOverwrite(appID, guildID, cmds); err != nil {
			return fmt.Errorf("register commands in guild %q: %w", guildID, err)
		}
	}
	return nil
}
