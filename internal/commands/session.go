package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

func HandleStart(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	user := InteractionUser(i)

	_, err := svc.Start(context.Background(), i.GuildID, i.ChannelID, user.Username)
	if err != nil {
		respondErr(s, i, err)
		return
	}
	respondText(s, i, "New session is started. Add orders with /order")
}

func HandleEnd(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	if err := svc.End(context.Background(), i.ChannelID); err != nil {
		respondErr(s, i, err)
		return
	}
	respondText(s, i, "Session is ended")
}
