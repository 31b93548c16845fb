// internal/words/deck.go
package words

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// ErrPoolExhausted is returned when the filtered pool cannot fill both sides of a card.
var ErrPoolExhausted = errors.New("word pool exhausted")

// CardRequest describes the card a round needs.
type CardRequest struct {
	Themes       []string
	Levels       []int
	WordsPerSide int
	BonusChance  float64
	// Exclude holds words already dealt in this session.
	Exclude map[string]bool
}

// Deck deals cards from a catalog using an injected random source.
// A Deck is not safe for concurrent use; each session owns its own.
type Deck struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewDeck returns a deck over catalog driven by rng.
func NewDeck(catalog *Catalog, rng *rand.Rand) *Deck {
	return &Deck{catalog: catalog, rng: rng}
}

// Catalog returns the catalog the deck draws from.
func (d *Deck) Catalog() *Catalog { return d.catalog }

// Generate deals a card for req. Excluded words are skipped; if that leaves too
// few words the caller gets ErrPoolExhausted and may retry without exclusions.
func (d *Deck) Generate(req CardRequest) (*models.Card, error) {
	pool := d.catalog.Pool(req.Themes, req.Levels, req.Exclude)
	return DrawCard(pool, req.WordsPerSide, req.BonusChance, d.rng)
}

// DrawCard samples 2*wordsPerSide distinct words from pool without replacement,
// yellow side first, and marks each as bonus with probability bonusChance.
// The result depends only on its inputs and the state of rng.
func DrawCard(pool []models.Word, wordsPerSide int, bonusChance float64, rng *rand.Rand) (*models.Card, error) {
	if wordsPerSide < 1 {
		return nil, fmt.Errorf("words per side must be at least 1, got %d", wordsPerSide)
	}
	need := 2 * wordsPerSide
	if len(pool) < need {
		return nil, fmt.Errorf("%w: need %d distinct words, pool has %d", ErrPoolExhausted, need, len(pool))
	}

	// partial Fisher-Yates over a copy; the shared pool stays untouched
	picked := append([]models.Word(nil), pool...)
	for i := 0; i < need; i++ {
		j := i + rng.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}

	card := &models.Card{
		Yellow: make([]models.Word, wordsPerSide),
		Blue:   make([]models.Word, wordsPerSide),
	}
	for i := 0; i < need; i++ {
		w := picked[i]
		w.IsBonus = rng.Float64() < bonusChance
		if i < wordsPerSide {
			card.Yellow[i] = w
		} else {
			card.Blue[i-wordsPerSide] = w
		}
	}
	return card, nil
}

// PickChallenge returns a challenge text not in used, resetting used when every
// challenge has been seen.
func (d *Deck) PickChallenge(used map[string]bool) string {
	return pickFresh(d.catalog.Challenges(), used, d.rng)
}

// PickCursed returns a cursed word not in used, resetting used when exhausted.
func (d *Deck) PickCursed(used map[string]bool) string {
	return pickFresh(d.catalog.CursedWords(), used, d.rng)
}

func pickFresh(all []string, used map[string]bool, rng *rand.Rand) string {
	if len(all) == 0 {
		return ""
	}
	fresh := make([]string, 0, len(all))
	for _, s := range all {
		if !used[s] {
			fresh = append(fresh, s)
		}
	}
	if len(fresh) == 0 {
		for k := range used {
			delete(used, k)
		}
		fresh = all
	}
	choice := fresh[rng.Intn(len(fresh))]
	used[choice] = true
	return choice
}
