package commands

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/mkaram/tabbot/internal/tab"
)

// RefreshBoard keeps one channel message showing the live order list,
// editing it in place after every mutation. The message is posted on first
// use and its ID remembered on the session.
func RefreshBoard(s *discordgo.Session, channelID string, svc *tab.Service) {
	if channelID == "" {
		return
	}
	ctx := context.Background()

	sess, err := svc.ActiveSession(ctx, channelID)
	if err != nil {
		return
	}
	summaries, err := svc.AllOrders(ctx, channelID)
	if err != nil {
		log.Printf("board: failed to load orders for %s: %v", channelID, err)
		return
	}
	content := FormatSummaries(summaries)
	if len(content) > 2000 {
		content = content[:2000]
	}

	if sess.BoardMessageID != "" {
		if _, err := s.ChannelMessageEdit(channelID, sess.BoardMessageID, content); err == nil {
			return
		}
		// The message may have been deleted by hand; fall through and repost.
	}

	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		log.Printf("board: failed to post board for %s: %v", channelID, err)
		return
	}
	if err := svc.SetBoardMessage(ctx, channelID, msg.ID); err != nil {
		log.Printf("board: failed to remember board message for %s: %v", channelID, err)
	}
}
