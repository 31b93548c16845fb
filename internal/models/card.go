// internal/models/card.go
package models

// Word is a single entry on a card. Bonus words are worth extra movement.
type Word struct {
	Text    string `json:"text"`
	Level   int    `json:"level"`
	IsBonus bool   `json:"isBonus"`
}

// Card holds the words of a normal round, one ordered list per side.
type Card struct {
	Yellow []Word `json:"yellowWords"`
	Blue   []Word `json:"blueWords"`
}

// Find looks up a word on either side of the card.
func (c *Card) Find(text string) (Word, bool) {
	if c == nil {
		return Word{}, false
	}
	for _, w := range c.Yellow {
		if w.Text == text {
			return w, true
		}
	}
	for _, w := range c.Blue {
		if w.Text == text {
			return w, true
		}
	}
	return Word{}, false
}

// Words returns both sides concatenated, yellow first.
func (c *Card) Words() []Word {
	if c == nil {
		return nil
	}
	all := make([]Word, 0, len(c.Yellow)+len(c.Blue))
	all = append(all, c.Yellow...)
	return append(all, c.Blue...)
}
