package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

func HandleMe(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	user := InteractionUser(i)

	items, err := svc.UserOrders(context.Background(), ChatKey(i), user.Username)
	if err != nil {
		respondErr(s, i, err)
		return
	}
	respondText(s, i, FormatUserOrders(user.Username, items))
}

func HandleAll(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	user := InteractionUser(i)

	summaries, err := svc.AllOrdersFor(context.Background(), ChatKey(i), user.Username)
	if err != nil {
		respondErr(s, i, err)
		return
	}

	content := FormatSummaries(summaries)
	if len(content) <= 2000 {
		respondText(s, i, content)
		return
	}
	respondText(s, i, "Order list is long, sending it below.")
	sendChunked(s, i.ChannelID, content)
}

// HandleBill computes the split. With unpriced rows the bill is withheld and
// a price prompt is posted instead; a reply to that prompt with the values
// finishes the job (see bot.onMessageCreate).
func HandleBill(s *discordgo.Session, i *discordgo.InteractionCreate, svc *tab.Service) {
	ctx := context.Background()
	user := InteractionUser(i)

	bill, err := svc.Bill(ctx, ChatKey(i), user.Username)
	if err != nil {
		respondErr(s, i, err)
		return
	}

	respondText(s, i, FormatBill(bill))

	if !bill.Final && i.GuildID != "" {
		prompt, err := s.ChannelMessageSend(i.ChannelID, FormatPricePrompt(bill.Unpriced))
		if err != nil {
			return
		}
		svc.SetPromptMessage(ctx, i.ChannelID, prompt.ID)
	}
}

func HandleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondText(s, i, helpText)
}
