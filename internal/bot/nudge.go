package bot

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

// nudgeWorker periodically reminds channels whose session still has unpriced
// orders, so the bill can eventually be produced.
type nudgeWorker struct {
	tabs     *tab.Service
	session  nudgeSession
	stopChan chan struct{}
	ticker   *time.Ticker
	interval time.Duration
	lastSent map[string]time.Time
}

// Minimal session interface for sending channel messages.
type nudgeSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func newNudgeWorker(session nudgeSession, tabs *tab.Service) *nudgeWorker {
	return &nudgeWorker{
		tabs:     tabs,
		session:  session,
		stopChan: make(chan struct{}),
		interval: 10 * time.Minute,
		lastSent: make(map[string]time.Time),
	}
}

func (w *nudgeWorker) start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.interval)
	go w.loop()
}

func (w *nudgeWorker) stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *nudgeWorker) loop() {
	ctx := context.Background()
	for {
		select {
		case <-w.ticker.C:
			w.tick(ctx)
		case <-w.stopChan:
			return
		}
	}
}

func (w *nudgeWorker) tick(ctx context.Context) {
	now := time.Now()
	chats, err := w.tabs.UnpricedChats(ctx)
	if err != nil {
		log.Printf("nudge: failed to load unpriced chats: %v", err)
		return
	}

	for _, chat := range chats {
		// Once per hour per channel is plenty.
		if last, ok := w.lastSent[chat]; ok && now.Sub(last) < time.Hour {
			continue
		}
		names, err := w.tabs.UnpricedNames(ctx, chat)
		if err != nil || len(names) == 0 {
			continue
		}
		msg := "Still missing prices for: " + strings.Join(names, ", ") + "\nSet them with /set so the bill can be computed."
		if err := w.sendWithRetry(ctx, chat, msg); err != nil {
			log.Printf("nudge: failed to send message to channel %s: %v", chat, err)
			continue
		}
		w.lastSent[chat] = now
	}
}

func (w *nudgeWorker) sendWithRetry(ctx context.Context, channelID, content string) error {
	const attemptTimeout = 12 * time.Second
	const maxAttempts = 2

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		_, err := w.session.ChannelMessageSend(channelID, content, discordgo.WithContext(sendCtx))
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTemporaryOrTimeout(err) {
			return err
		}
		time.Sleep(time.Duration(300+rand.Intn(500)) * time.Millisecond)
	}
	return lastErr
}

func isTemporaryOrTimeout(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout() || ne.Temporary()
	}
	return false
}
