// internal/handlers/game_server.go
package handlers

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
	"github.com/jason-s-yu/thirtyseconds/internal/middleware"
)

// GameServer ties the session store to its HTTP and websocket surfaces.
type GameServer struct {
	Store  *game.SessionStore
	Router *Router
	Logger *logrus.Logger
}

// NewGameServer wires a router onto store.
func NewGameServer(store *game.SessionStore, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Store:  store,
		Router: NewRouter(store, logger),
		Logger: logger,
	}
}

// Routes returns the full HTTP handler: REST API, websocket endpoint and
// health check, behind CORS and request logging.
func (gs *GameServer) Routes(allowedOrigins []string, ws WSOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/games", CreateGameHandler(gs))
	mux.HandleFunc("GET /api/games", ListGamesHandler(gs))
	mux.HandleFunc("GET /api/games/{code}", GetGameHandler(gs))
	mux.HandleFunc("DELETE /api/games/{code}", DeleteGameHandler(gs))
	mux.HandleFunc("GET /api/games/{code}/join", JoinGameHandler(gs))

	mux.HandleFunc("GET /api/config/themes", ThemesHandler(gs))
	mux.HandleFunc("GET /api/config/levels", LevelsHandler(gs))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": len(gs.Store.List()),
			"clients":  gs.Router.ClientCount(),
		})
	})

	if ws.MessagesPerSecond <= 0 {
		ws.MessagesPerSecond = 10
	}
	if ws.Burst <= 0 {
		ws.Burst = 20
	}
	if ws.OriginPatterns == nil {
		ws.OriginPatterns = allowedOrigins
	}
	mux.Handle("/game/ws", GameWSHandler(gs.Logger, gs.Router, ws))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	})
	return middleware.LogMiddleware(gs.Logger)(c.Handler(mux))
}
