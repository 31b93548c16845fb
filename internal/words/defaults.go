// internal/words/defaults.go
package words

import "github.com/jason-s-yu/thirtyseconds/internal/models"

// DefaultThemeID is the theme used when no word-bank files could be loaded.
const DefaultThemeID = "general"

// ChallengesFile is the stem of the word-bank file that holds challenge texts
// rather than guessable words.
const ChallengesFile = "challenges"

// CursedMinLevel is the lowest difficulty whose words also feed the cursed pool.
const CursedMinLevel = 4

var defaultLevels = []models.Level{
	{Level: 1, Name: "Easy", ColorHint: "#2ecc71"},
	{Level: 2, Name: "Medium", ColorHint: "#f39c12"},
	{Level: 3, Name: "Hard", ColorHint: "#e74c3c"},
	{Level: 4, Name: "Very Hard", ColorHint: "#9b59b6"},
	{Level: 5, Name: "Impossible", ColorHint: "#1a1a2e"},
}

var knownThemeNames = map[string]string{
	"general":        "General",
	"movies":         "Movies & Film",
	"cartoons_anime": "Cartoons & Anime",
	"sports":         "Sports",
	"geography":      "Geography",
	"gen_z":          "Gen Z",
	"games":          "Games",
	"music":          "Music",
	"bible":          "Bible",
	"high_iq":        "High IQ (Hard)",
}

func defaultBank() []models.Word {
	return []models.Word{
		{Text: "House", Level: 1}, {Text: "Car", Level: 1}, {Text: "Dog", Level: 1},
		{Text: "Cat", Level: 1}, {Text: "Tree", Level: 1}, {Text: "Happiness", Level: 1},
		{Text: "Friendship", Level: 1}, {Text: "Football", Level: 1}, {Text: "Beach", Level: 1},
		{Text: "Mountain", Level: 1},
		{Text: "Computer", Level: 2}, {Text: "Telephone", Level: 2}, {Text: "Television", Level: 2},
		{Text: "Fridge", Level: 2}, {Text: "Bicycle", Level: 2}, {Text: "Hospital", Level: 2},
		{Text: "Airport", Level: 2}, {Text: "Restaurant", Level: 2}, {Text: "Supermarket", Level: 2},
		{Text: "Library", Level: 2},
		{Text: "Photography", Level: 3}, {Text: "Democracy", Level: 3}, {Text: "Philosophy", Level: 3},
		{Text: "Astronomy", Level: 3}, {Text: "Archaeology", Level: 3},
	}
}

var defaultChallenges = []string{
	"Count from 1 to 50 in 30 seconds",
	"Name 10 capital cities",
	"Do 15 jumping jacks",
	"Imitate 5 different animals",
	"Say the alphabet backwards",
	"Name 10 car brands",
	"Sing a line from 3 different songs",
	"Name 10 football clubs",
	"Do 10 push-ups",
	"Name 8 European countries",
	"Name 10 fruits in 15 seconds",
	"Mime 3 professions for your team",
	"Count down from 100 to 70",
	"Name 10 musical instruments",
	"Say the 12 months of the year backwards",
}

var defaultCursed = []string{
	"Incomprehensible",
	"Archaeology",
	"Hypothesis",
	"Ecosystem",
	"Philanthropy",
	"Nanotechnology",
	"Heredity",
	"Metamorphosis",
	"Perpendicular",
	"A place where time seems to stop",
	"Something that transforms completely",
	"An idea almost impossible to believe",
	"A memory that never fades",
	"A sound echoing in the distance",
	"A discovery that changes everything",
	"A journey with no destination",
}
