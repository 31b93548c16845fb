// internal/words/catalog.go
package words

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Catalog is the read-only set of word banks shared by every session.
// It must not be mutated after construction.
type Catalog struct {
	themes     map[string][]models.Word
	challenges []string
	cursed     []string
}

// NewCatalog builds a catalog from in-memory banks. Theme words are deduplicated
// per theme; an empty banks map yields the built-in default theme.
func NewCatalog(banks map[string][]models.Word, challenges []string) *Catalog {
	c := &Catalog{themes: make(map[string][]models.Word)}
	for id, ws := range banks {
		seen := make(map[string]bool, len(ws))
		clean := make([]models.Word, 0, len(ws))
		for _, w := range ws {
			w.Text = strings.TrimSpace(w.Text)
			if w.Text == "" || seen[w.Text] {
				continue
			}
			if w.Level <= 0 {
				w.Level = 1
			}
			w.IsBonus = false
			seen[w.Text] = true
			clean = append(clean, w)
		}
		if len(clean) > 0 {
			c.themes[id] = clean
		}
	}
	if len(c.themes) == 0 {
		c.themes[DefaultThemeID] = defaultBank()
	}

	c.challenges = append([]string(nil), challenges...)
	if len(c.challenges) == 0 {
		c.challenges = append([]string(nil), defaultChallenges...)
	}

	seen := make(map[string]bool)
	for _, id := range c.themeIDs() {
		for _, w := range c.themes[id] {
			if w.Level >= CursedMinLevel && !seen[w.Text] {
				seen[w.Text] = true
				c.cursed = append(c.cursed, w.Text)
			}
		}
	}
	for _, p := range defaultCursed {
		if !seen[p] {
			seen[p] = true
			c.cursed = append(c.cursed, p)
		}
	}
	return c
}

// LoadDir reads every .json, .yaml and .yml file in dir. The file stem is the theme id.
// Files that fail to parse are logged and skipped; a missing directory falls back
// to the built-in bank.
func LoadDir(dir string, logger logrus.FieldLogger) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("word bank directory %q not found, using built-in bank", dir)
			return NewCatalog(nil, nil), nil
		}
		return nil, fmt.Errorf("reading word bank directory %s: %w", dir, err)
	}

	banks := make(map[string][]models.Word)
	var challenges []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())

		ws, err := loadFile(path, ext)
		if err != nil {
			logger.Warnf("skipping word bank %s: %v", path, err)
			continue
		}
		if id == ChallengesFile {
			for _, w := range ws {
				challenges = append(challenges, w.Text)
			}
			logger.Infof("loaded %d challenges from %s", len(ws), path)
			continue
		}
		banks[id] = ws
		logger.Infof("loaded theme %s (%d words)", id, len(ws))
	}
	return NewCatalog(banks, challenges), nil
}

func loadFile(path, ext string) ([]models.Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if ext == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return normalizeBank(raw), nil
}

// normalizeBank accepts a list of strings, a list of {word|text|name, level|difficulty}
// objects, or an object with a "words" key holding either.
func normalizeBank(raw interface{}) []models.Word {
	if m, ok := raw.(map[string]interface{}); ok {
		raw = m["words"]
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Word, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, models.Word{Text: v, Level: 1})
		case map[string]interface{}:
			text := firstString(v, "word", "text", "name")
			if text == "" {
				continue
			}
			level := firstInt(v, 1, "level", "difficulty")
			out = append(out, models.Word{Text: text, Level: level})
		}
	}
	return out
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]interface{}, def int, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case int:
			return v
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return def
}

// HasTheme reports whether a theme id is known.
func (c *Catalog) HasTheme(id string) bool {
	_, ok := c.themes[id]
	return ok
}

// DefaultTheme returns the first theme id in name order.
func (c *Catalog) DefaultTheme() string {
	if c.HasTheme(DefaultThemeID) {
		return DefaultThemeID
	}
	themes := c.Themes()
	return themes[0].ID
}

// Themes lists the available themes sorted by display name.
func (c *Catalog) Themes() []models.Theme {
	out := make([]models.Theme, 0, len(c.themes))
	for id, ws := range c.themes {
		out = append(out, models.Theme{ID: id, Name: DisplayName(id), WordCount: len(ws)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Levels lists the difficulty levels.
func (c *Catalog) Levels() []models.Level {
	return append([]models.Level(nil), defaultLevels...)
}

// HasLevel reports whether lvl is a known difficulty level.
func (c *Catalog) HasLevel(lvl int) bool {
	for _, l := range defaultLevels {
		if l.Level == lvl {
			return true
		}
	}
	return false
}

// Pool returns the distinct words of the given themes whose level is in levels,
// skipping any word in exclude. Order is stable: theme order as given, then file order.
func (c *Catalog) Pool(themes []string, levels []int, exclude map[string]bool) []models.Word {
	want := make(map[int]bool, len(levels))
	for _, l := range levels {
		want[l] = true
	}
	seen := make(map[string]bool)
	var pool []models.Word
	for _, id := range themes {
		for _, w := range c.themes[id] {
			if !want[w.Level] || seen[w.Text] || exclude[w.Text] {
				continue
			}
			seen[w.Text] = true
			pool = append(pool, w)
		}
	}
	return pool
}

// Challenges returns the challenge texts. The slice must not be modified.
func (c *Catalog) Challenges() []string { return c.challenges }

// CursedWords returns the cursed-word pool. The slice must not be modified.
func (c *Catalog) CursedWords() []string { return c.cursed }

func (c *Catalog) themeIDs() []string {
	ids := make([]string, 0, len(c.themes))
	for id := range c.themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DisplayName formats a theme id for display.
func DisplayName(id string) string {
	if n, ok := knownThemeNames[id]; ok {
		return n
	}
	parts := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, p := range parts {
		r := []rune(p)
		parts[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(parts, " ")
}
