// internal/handlers/helpers_test.go
package handlers

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestGameServer(t *testing.T) *GameServer {
	t.Helper()
	var bank []models.Word
	for i := 0; i < 30; i++ {
		bank = append(bank, models.Word{Text: fmt.Sprintf("word%02d", i), Level: 1})
	}
	catalog := words.NewCatalog(map[string][]models.Word{words.DefaultThemeID: bank}, nil)
	logger := testLogger()
	store := game.NewSessionStore(catalog, game.Options{
		Rand:   rand.New(rand.NewSource(7)),
		Logger: logger,
	})
	return NewGameServer(store, logger)
}

func plainRequest() game.CreateRequest {
	zero, none := 0, 0.0
	return game.CreateRequest{
		Name:               "Test night",
		ChallengeFrequency: &zero,
		CursedChance:       &none,
		BonusChance:        &none,
	}
}

// drain returns every event queued for c without blocking.
func drain(c *Client) []game.GameEvent {
	var out []game.GameEvent
	for {
		select {
		case ev, ok := <-c.OutChan:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventTypes(evs []game.GameEvent) []game.GameEventType {
	out := make([]game.GameEventType, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}

func findEvent(evs []game.GameEvent, typ game.GameEventType) *game.GameEvent {
	for i := range evs {
		if evs[i].Type == typ {
			return &evs[i]
		}
	}
	return nil
}
