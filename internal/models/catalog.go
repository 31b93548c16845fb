// internal/models/catalog.go
package models

// Theme describes a word bank available when creating a game.
type Theme struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WordCount int    `json:"wordCount"`
}

// Level is a difficulty level. ColorHint is a CSS colour used by the setup console.
type Level struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	ColorHint string `json:"color"`
}
