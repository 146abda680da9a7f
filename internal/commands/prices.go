package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

func HandleSet(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	data := i.ApplicationCommandData()
	user := InteractionUser(i)
	payload := getStringOption(data, "prices")

	names, err := svc.SetPrices(context.Background(), ChatKey(i), user.Username, payload)
	if err != nil {
		respondErr(s, i, err)
		return
	}

	respondText(s, i, fmt.Sprintf("Priced: %s", strings.Join(names, ", ")))
	RefreshBoard(s, i.ChannelID, svc)
}

func HandleService(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	amount := getStringOption(i.ApplicationCommandData(), "amount")

	if err := svc.SetServiceCharge(context.Background(), i.ChannelID, amount); err != nil {
		respondErr(s, i, err)
		return
	}
	respondText(s, i, "Service charge recorded")
}

func HandleTax(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	amount := getStringOption(i.ApplicationCommandData(), "amount")

	if err := svc.SetTaxCharge(context.Background(), i.ChannelID, amount); err != nil {
		respondErr(s, i, err)
		return
	}
	respondText(s, i, "Tax recorded")
}
