// internal/handlers/games.go
package handlers

import (
	"net/http"
	"net/url"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
)

// createdGame is the response to a successful create.
type createdGame struct {
	Game *game.Snapshot       `json:"game"`
	Join map[game.Role]string `json:"join"`
}

// joinInfo tells a client how to reach a session's websocket.
type joinInfo struct {
	SessionID   string    `json:"sessionId"`
	Role        game.Role `json:"role"`
	Path        string    `json:"path"`
	Subprotocol string    `json:"subprotocol"`
}

func joinPath(code string, role game.Role) string {
	q := url.Values{}
	q.Set("session", code)
	q.Set("role", string(role))
	return "/game/ws?" + q.Encode()
}

// CreateGameHandler creates a session from a JSON config. An empty body creates
// a game with every default.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req game.CreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		s, err := gs.Store.Create(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdGame{
			Game: s.Snapshot(game.RoleAdmin),
			Join: map[game.Role]string{
				game.RoleAdmin:  joinPath(s.ID, game.RoleAdmin),
				game.RoleBoard:  joinPath(s.ID, game.RoleBoard),
				game.RolePlayer: joinPath(s.ID, game.RolePlayer),
			},
		})
	}
}

// ListGamesHandler lists live sessions.
func ListGamesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.Store.List())
	}
}

// GetGameHandler returns a session snapshot as the board sees it.
func GetGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := gs.Store.Get(r.PathValue("code"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Snapshot(game.RoleBoard))
	}
}

// DeleteGameHandler ends a session and disconnects its clients.
func DeleteGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gs.Store.Delete(r.PathValue("code")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// JoinGameHandler resolves a session code and role into a websocket path.
func JoinGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := gs.Store.Get(r.PathValue("code"))
		if err != nil {
			writeError(w, err)
			return
		}
		roleName := r.URL.Query().Get("role")
		if roleName == "" {
			roleName = string(game.RolePlayer)
		}
		role, err := game.ParseRole(roleName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, joinInfo{
			SessionID:   s.ID,
			Role:        role,
			Path:        joinPath(s.ID, role),
			Subprotocol: Subprotocol,
		})
	}
}

// ThemesHandler lists the word banks available to new games.
func ThemesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.Store.Catalog().Themes())
	}
}

// LevelsHandler lists the difficulty levels.
func LevelsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gs.Store.Catalog().Levels())
	}
}
