// internal/models/game_action.go
package models

import "github.com/google/uuid"

// ActionRecord captures one accepted session operation for the history queue.
// GameID is unique forever; SessionID is the short join code, which may be reused.
type ActionRecord struct {
	GameID      uuid.UUID              `json:"game_id"`
	SessionID   string                 `json:"session_id"`
	ActionIndex int                    `json:"action_index"`
	Action      string                 `json:"action"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   int64                  `json:"timestamp"`
}
