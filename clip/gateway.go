// Package clip implements the submit, approve and publish workflow on top of
// a Discord session.
package clip

import (
	"github.com/bwmarrin/discordgo"
)

// Gateway is the part of *discordgo.Session the workflow talks to.
type Gateway interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

var _ Gateway = (*discordgo.Session)(nil)
