package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/mkaram/tabbot/internal/tab"
)

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func respondErr(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	respondText(s, i, ErrorMessage(err))
}

// ErrorMessage maps core errors onto what the user sees. Anything
// unrecognized gets a generic line so internals never leak into chat.
func ErrorMessage(err error) string {
	var mismatch *tab.CountMismatchError
	switch {
	case errors.Is(err, tab.ErrNoSession):
		return "No active session, please start a new one with /start"
	case errors.Is(err, tab.ErrSessionExists):
		return "A session is already started"
	case errors.Is(err, tab.ErrEmptyOrder):
		return "Invalid order"
	case errors.Is(err, tab.ErrBadNumber):
		return "That doesn't look like a number"
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Price count mismatch: expected %d values, got %d", mismatch.Expected, mismatch.Actual)
	default:
		return "Something went wrong, please try again"
	}
}

// sendChunked splits long content into 2000-character Discord messages.
func sendChunked(s *discordgo.Session, channelID, content string) {
	for _, chunk := range chunkLines(content, 2000) {
		s.ChannelMessageSend(channelID, chunk)
	}
}

func chunkLines(content string, limit int) []string {
	var chunks []string
	var buffer strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if buffer.Len()+len(line)+1 > limit {
			chunks = append(chunks, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
	}
	if buffer.Len() > 0 {
		chunks = append(chunks, buffer.String())
	}
	return chunks
}

// FormatUserOrders renders one user's rows for /me.
func FormatUserOrders(username string, items []tab.Item) string {
	if len(items) == 0 {
		return fmt.Sprintf("%s has no orders yet", username)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Orders for %s:\n", username)
	for _, it := range items {
		fmt.Fprintf(&b, "• %dx %s%s\n", it.Quantity, it.Name, priceSuffix(it.Price))
	}
	return b.String()
}

// FormatSummaries renders the grouped /all view.
func FormatSummaries(summaries []tab.NameSummary) string {
	if len(summaries) == 0 {
		return "No orders yet"
	}
	var b strings.Builder
	b.WriteString("All orders:\n")
	for _, sum := range summaries {
		fmt.Fprintf(&b, "• %dx %s%s\n", sum.Quantity, sum.Name, priceSuffix(sum.Price))
		for _, share := range sum.Users {
			fmt.Fprintf(&b, "    %s × %d\n", share.Username, share.Quantity)
		}
	}
	return b.String()
}

// FormatBill renders the computed split, or the unpriced prompt lead-in when
// the bill is not final.
func FormatBill(bill *tab.Bill) string {
	var b strings.Builder
	if !bill.Final {
		b.WriteString("Some orders have no price yet:\n")
		for _, name := range bill.Unpriced {
			fmt.Fprintf(&b, "• %s\n", name)
		}
		b.WriteString("Set them with /set, or reply to the prompt below with the values in order.")
		return b.String()
	}

	b.WriteString("Bill:\n")
	for _, u := range bill.Users {
		fmt.Fprintf(&b, "• %s: %s (orders %s + service %s + tax %s)\n",
			u.Username, u.Total.StringFixed(2), u.Net.StringFixed(2),
			bill.NormalizedService.StringFixed(2), bill.NormalizedTax.StringFixed(2))
	}
	fmt.Fprintf(&b, "Service total: %s, tax total: %s\n", bill.Service.StringFixed(2), bill.Tax.StringFixed(2))
	return b.String()
}

// FormatPricePrompt asks for the missing prices, one value per name in order.
func FormatPricePrompt(unpriced []string) string {
	var b strings.Builder
	b.WriteString("Reply to this message with prices for: ")
	b.WriteString(strings.Join(unpriced, ", "))
	b.WriteString("\n(comma-separated, in that order, e.g. \"1.5, 4\")")
	return b.String()
}

const helpText = `How the order bot works:
/start — open a session for this channel
/order items — add orders: "2 coke + fries $4 + 3x chicken burger"
/remove items — retract: "coke" removes one, "2 coke" removes two
/set prices — price orders: "coke = 1.5, fries = 4"
/service amount, /tax amount — shared charges, split evenly
/me — your orders, /all — everyone's orders
/bill — the split: each pays their orders plus an equal share of charges
/end — close the session and clear everything`

func priceSuffix(p decimal.NullDecimal) string {
	if !p.Valid {
		return " (no price)"
	}
	return " @ " + p.Decimal.StringFixed(2)
}
