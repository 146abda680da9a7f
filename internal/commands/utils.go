package commands

import (
	"github.com/bwmarrin/discordgo"
)

// InteractionUser works in both guild channels and DMs.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// ChatKey identifies the chat a command targets. DMs return "" so the
// service resolves the session through the user's binding instead.
func ChatKey(i *discordgo.InteractionCreate) string {
	if i.GuildID == "" {
		return ""
	}
	return i.ChannelID
}

func getStringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, o := range data.Options {
		if o.Name == name {
			return o.StringValue()
		}
	}
	return ""
}
