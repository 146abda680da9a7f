package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

func HandleOrder(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	data := i.ApplicationCommandData()
	user := InteractionUser(i)
	payload := getStringOption(data, "items")

	lines, err := svc.AddOrders(context.Background(), ChatKey(i), user.Username, payload, i.ID)
	if err != nil {
		respondErr(s, i, err)
		return
	}

	respondText(s, i, fmt.Sprintf("Added for %s: %s", user.Username, tab.FormatLines(lines)))
	RefreshBoard(s, i.ChannelID, svc)
}

func HandleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	data := i.ApplicationCommandData()
	user := InteractionUser(i)
	payload := getStringOption(data, "items")

	if err := svc.RemoveOrders(context.Background(), ChatKey(i), user.Username, payload); err != nil {
		respondErr(s, i, err)
		return
	}

	respondText(s, i, fmt.Sprintf("Updated orders for %s", user.Username))
	RefreshBoard(s, i.ChannelID, svc)
}
