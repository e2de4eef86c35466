package utils

import (
	"github.com/bwmarrin/discordgo"
)

// StringPtr returns a pointer to the given string.
// This is a helper function for discordgo fields that require a *string.
func StringPtr(s string) *string {
	return &s
}

// InteractionUser returns the user behind an interaction in a guild or a DM.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionRoles returns the invoking member's roles, nil outside guilds.
func InteractionRoles(i *discordgo.InteractionCreate) []string {
	if i.Member == nil {
		return nil
	}
	return i.Member.Roles
}
