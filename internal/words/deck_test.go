package words

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePool(n int) []models.Word {
	pool := make([]models.Word, n)
	for i := range pool {
		pool[i] = models.Word{Text: fmt.Sprintf("word-%02d", i), Level: 1}
	}
	return pool
}

func TestDrawCardNoDuplicates(t *testing.T) {
	pool := makePool(12)
	for seed := int64(0); seed < 50; seed++ {
		card, err := DrawCard(pool, 5, 0.3, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Len(t, card.Yellow, 5)
		require.Len(t, card.Blue, 5)

		seen := make(map[string]bool)
		for _, w := range card.Words() {
			assert.False(t, seen[w.Text], "seed %d dealt %q twice", seed, w.Text)
			seen[w.Text] = true
		}
	}
}

func TestDrawCardDeterministic(t *testing.T) {
	pool := makePool(30)
	a, err := DrawCard(pool, 5, 0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := DrawCard(pool, 5, 0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDrawCardDoesNotMutatePool(t *testing.T) {
	pool := makePool(10)
	orig := append([]models.Word(nil), pool...)
	_, err := DrawCard(pool, 5, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, orig, pool)
}

func TestDrawCardPoolExhausted(t *testing.T) {
	_, err := DrawCard(makePool(9), 5, 0, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPoolExhausted))
}

func TestDrawCardBonusChance(t *testing.T) {
	pool := makePool(20)
	none, err := DrawCard(pool, 5, 0, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	for _, w := range none.Words() {
		assert.False(t, w.IsBonus)
	}

	all, err := DrawCard(pool, 5, 1, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	for _, w := range all.Words() {
		assert.True(t, w.IsBonus)
	}
}

func TestDeckGenerateFiltersThemesAndLevels(t *testing.T) {
	cat := NewCatalog(map[string][]models.Word{
		"animals": {{Text: "Dog", Level: 1}, {Text: "Cat", Level: 1}, {Text: "Axolotl", Level: 3}},
		"food":    {{Text: "Bread", Level: 1}, {Text: "Soup", Level: 1}},
	}, nil)
	deck := NewDeck(cat, rand.New(rand.NewSource(7)))

	card, err := deck.Generate(CardRequest{Themes: []string{"animals", "food"}, Levels: []int{1}, WordsPerSide: 2})
	require.NoError(t, err)
	for _, w := range card.Words() {
		assert.NotEqual(t, "Axolotl", w.Text)
	}

	_, err = deck.Generate(CardRequest{Themes: []string{"animals"}, Levels: []int{1}, WordsPerSide: 2})
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestDeckGenerateHonorsExclude(t *testing.T) {
	cat := NewCatalog(map[string][]models.Word{"t": makePool(6)}, nil)
	deck := NewDeck(cat, rand.New(rand.NewSource(1)))
	exclude := map[string]bool{"word-00": true, "word-01": true}

	card, err := deck.Generate(CardRequest{Themes: []string{"t"}, Levels: []int{1}, WordsPerSide: 2, Exclude: exclude})
	require.NoError(t, err)
	for _, w := range card.Words() {
		assert.False(t, exclude[w.Text])
	}
}

func TestPickChallengeCyclesBeforeRepeating(t *testing.T) {
	cat := NewCatalog(nil, []string{"a", "b", "c"})
	deck := NewDeck(cat, rand.New(rand.NewSource(9)))
	used := make(map[string]bool)

	got := make(map[string]bool)
	for i := 0; i < 3; i++ {
		got[deck.PickChallenge(used)] = true
	}
	assert.Len(t, got, 3)

	// all used: next pick resets the memory
	next := deck.PickChallenge(used)
	assert.Contains(t, []string{"a", "b", "c"}, next)
	assert.Len(t, used, 1)
}
