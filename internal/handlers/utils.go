// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps session errors onto HTTP statuses, using the same body shape
// as the websocket error event.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch game.ErrorCode(err) {
	case game.CodeValidation, game.CodePoolExhausted:
		status = http.StatusBadRequest
	case game.CodeNotFound:
		status = http.StatusNotFound
	case game.CodeIllegalState:
		status = http.StatusConflict
	}
	writeJSON(w, status, game.ErrorEvent(err))
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &game.ValidationError{Msg: "bad request payload: " + err.Error()}
	}
	return nil
}
