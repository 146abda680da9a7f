package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/oauth2"

	"github.com/mkaram/tabbot/internal/config"
	"github.com/mkaram/tabbot/internal/tab"
)

type API struct {
	router      *mux.Router
	tabs        *tab.Service
	config      *config.Config
	oauthConfig *oauth2.Config
	jwtSecret   []byte
}

func New(cfg *config.Config, tabs *tab.Service) *API {
	api := &API{
		router:    mux.NewRouter(),
		tabs:      tabs,
		config:    cfg,
		jwtSecret: []byte(cfg.JWTSecret),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/api/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		},
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("GET")
	a.router.HandleFunc("/api/auth/callback", a.handleCallback).Methods("GET")
	a.router.HandleFunc("/api/auth/logout", a.handleLogout).Methods("POST")

	// Public endpoints
	a.router.HandleFunc("/api/health", a.handleHealth).Methods("GET")

	// Protected endpoints: read-only views of sessions and bills. The
	// command path through Discord stays the single writer.
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/user/guilds", a.handleUserGuilds).Methods("GET")
	protected.HandleFunc("/guilds/{guild_id}/sessions", a.handleGuildSessions).Methods("GET")
	protected.HandleFunc("/guilds/{guild_id}/chats/{chat_id}/orders", a.handleChatOrders).Methods("GET")
	protected.HandleFunc("/guilds/{guild_id}/chats/{chat_id}/bill", a.handleChatBill).Methods("GET")
}

func (a *API) Start() error {
	// Only the web UI origin may call the API from a browser.
	corsOptions := cors.Options{
		AllowedOrigins:   []string{a.config.WebUIBaseURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
