package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkaram/tabbot/internal/tab"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Protected handlers
func (a *API) handleUserGuilds(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)

	guilds, err := a.getDiscordGuilds(claims.AccessToken)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to get guilds: %v", err), http.StatusBadGateway)
		return
	}

	// Only surface guilds that currently have an open session.
	activeIDs, err := a.tabs.GuildsWithSessions(context.Background())
	if err != nil {
		http.Error(w, "failed to get active guilds", http.StatusInternalServerError)
		return
	}
	activeMap := make(map[string]bool)
	for _, id := range activeIDs {
		activeMap[id] = true
	}

	var filtered []DiscordGuild
	for _, guild := range guilds {
		if activeMap[guild.ID] {
			filtered = append(filtered, guild)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(filtered)
}

type sessionView struct {
	ChatID    string `json:"chat_id"`
	CreatedBy string `json:"created_by"`
	Service   string `json:"service"`
	Tax       string `json:"tax"`
}

func (a *API) handleGuildSessions(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	guildID := mux.Vars(r)["guild_id"]

	// Verify user has access to guild
	if !a.userHasGuildAccess(claims.AccessToken, guildID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	sessions, err := a.tabs.SessionsByGuild(context.Background(), guildID)
	if err != nil {
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView{
			ChatID:    s.ChatID,
			CreatedBy: s.CreatedBy,
			Service:   s.Service.StringFixed(2),
			Tax:       s.Tax.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

type orderView struct {
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    *string     `json:"price"`
	Users    []shareView `json:"users"`
}

type shareView struct {
	Username string `json:"username"`
	Quantity int    `json:"quantity"`
}

func (a *API) handleChatOrders(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	vars := mux.Vars(r)

	if !a.userHasGuildAccess(claims.AccessToken, vars["guild_id"]) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	summaries, err := a.tabs.AllOrders(context.Background(), vars["chat_id"])
	if err != nil {
		a.sessionError(w, err)
		return
	}

	views := make([]orderView, 0, len(summaries))
	for _, sum := range summaries {
		view := orderView{Name: sum.Name, Quantity: sum.Quantity}
		if sum.Price.Valid {
			p := sum.Price.Decimal.StringFixed(2)
			view.Price = &p
		}
		for _, share := range sum.Users {
			view.Users = append(view.Users, shareView{Username: share.Username, Quantity: share.Quantity})
		}
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

type billView struct {
	Final             bool           `json:"final"`
	Service           string         `json:"service"`
	Tax               string         `json:"tax"`
	NormalizedService string         `json:"normalized_service"`
	NormalizedTax     string         `json:"normalized_tax"`
	Unpriced          []string       `json:"unpriced,omitempty"`
	Users             []userBillView `json:"users"`
}

type userBillView struct {
	Username string `json:"username"`
	Net      string `json:"net"`
	Total    string `json:"total"`
}

func (a *API) handleChatBill(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	vars := mux.Vars(r)

	if !a.userHasGuildAccess(claims.AccessToken, vars["guild_id"]) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	bill, err := a.tabs.Bill(context.Background(), vars["chat_id"], "")
	if err != nil {
		a.sessionError(w, err)
		return
	}

	view := billView{
		Final:             bill.Final,
		Service:           bill.Service.StringFixed(2),
		Tax:               bill.Tax.StringFixed(2),
		NormalizedService: bill.NormalizedService.StringFixed(2),
		NormalizedTax:     bill.NormalizedTax.StringFixed(2),
		Unpriced:          bill.Unpriced,
	}
	for _, u := range bill.Users {
		view.Users = append(view.Users, userBillView{
			Username: u.Username,
			Net:      u.Net.StringFixed(2),
			Total:    u.Total.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if !bill.Final {
		// An unfinished bill is visible but flagged.
		w.WriteHeader(http.StatusConflict)
	}
	json.NewEncoder(w).Encode(view)
}

func (a *API) sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, tab.ErrNoSession) {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// Helper functions
func (a *API) userHasGuildAccess(accessToken string, guildID string) bool {
	guilds, err := a.getDiscordGuilds(accessToken)
	if err != nil {
		return false
	}

	for _, guild := range guilds {
		if guild.ID == guildID {
			return true
		}
	}
	return false
}
