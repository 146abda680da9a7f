package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

type Bot struct {
	session *discordgo.Session
	tabs    *tab.Service
	nudger  *nudgeWorker
}

func New(token string, tabs *tab.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session: session,
		tabs:    tabs,
	}
	bot.nudger = newNudgeWorker(session, tabs)

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsAll

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.nudger.start()
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	b.nudger.stop()
	return b.session.Close()
}
