package bot

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/commands"
)

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)

	// Register commands for all guilds
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.Printf("Failed to register commands for guild %s: %v", guild.ID, err)
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	log.Printf("Guild available/joined: %s (id=%s) — ensuring commands", event.Name, event.ID)
	if err := b.registerGuildCommands(event.ID); err != nil {
		log.Printf("Failed to register commands for guild %s: %v", event.ID, err)
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	cmds := commands.GetCommands()
	// Delete existing commands and register new ones
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}

	log.Printf("Registered application commands for guild %s", guildID)
	return nil
}

// onMessageCreate watches for replies to the session's price prompt and
// treats them as a bulk price assignment, one value per unpriced name.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot {
		return
	}
	if m.MessageReference == nil || m.GuildID == "" {
		return
	}

	ctx := context.Background()
	sess, err := b.tabs.ActiveSession(ctx, m.ChannelID)
	if err != nil || sess.PromptMessageID == "" || sess.PromptMessageID != m.MessageReference.MessageID {
		return
	}

	values := strings.Split(strings.TrimSpace(m.Content), ",")
	if err := b.tabs.AssignPrices(ctx, m.ChannelID, values); err != nil {
		s.ChannelMessageSend(m.ChannelID, commands.ErrorMessage(err))
		return
	}

	// Prompt answered; forget it and show the finished bill.
	b.tabs.SetPromptMessage(ctx, m.ChannelID, "")
	bill, err := b.tabs.Bill(ctx, m.ChannelID, "")
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, commands.ErrorMessage(err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, commands.FormatBill(bill))
	commands.RefreshBoard(s, m.ChannelID, b.tabs)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "start":
		commands.HandleStart(s, i, b.tabs)
	case "end":
		commands.HandleEnd(s, i, b.tabs)
	case "order":
		commands.HandleOrder(s, i, b.tabs)
	case "remove":
		commands.HandleRemove(s, i, b.tabs)
	case "set":
		commands.HandleSet(s, i, b.tabs)
	case "service":
		commands.HandleService(s, i, b.tabs)
	case "tax":
		commands.HandleTax(s, i, b.tabs)
	case "me":
		commands.HandleMe(s, i, b.tabs)
	case "all":
		commands.HandleAll(s, i, b.tabs)
	case "bill":
		commands.HandleBill(s, i, b.tabs)
	case "tabhelp":
		commands.HandleHelp(s, i)
	}
}
