package category

import "strings"

// Category tags applied to every activity. The set is closed; Classify always
// returns one of these.
const (
	Sports     = "sports"
	Arts       = "arts"
	Academic   = "academic"
	Community  = "community"
	Technology = "technology"
)

// All is the criteria sentinel meaning "no category restriction". It is never
// returned by Classify.
const All = "all"

// Precedence is the fixed category evaluation and presentation order.
// An activity matching keywords from two groups is classified under whichever
// group appears first here, so the order is part of the contract.
var Precedence = []string{Sports, Arts, Academic, Community, Technology}

// keywordGroup pairs a category with the substrings that select it. Name and
// description keywords are kept separate because some words only signal a
// category in one of the two fields (e.g. "competition" in a description).
type keywordGroup struct {
	category  string
	nameWords []string
	descWords []string
}

var groups = []keywordGroup{
	{
		category:  Sports,
		nameWords: []string{"soccer", "basketball", "sport", "fitness"},
		descWords: []string{"team", "game", "athletic"},
	},
	{
		category:  Arts,
		nameWords: []string{"art", "music", "theater", "drama", "manga"},
		descWords: []string{"creative", "paint", "graphic novels", "stories"},
	},
	{
		category:  Academic,
		nameWords: []string{"science", "math", "academic", "study", "olympiad"},
		descWords: []string{"learning", "education", "competition"},
	},
	{
		category:  Community,
		nameWords: []string{"volunteer", "community"},
		descWords: []string{"service", "volunteer"},
	},
	{
		category:  Technology,
		nameWords: []string{"computer", "coding", "tech", "robotics"},
		descWords: []string{"programming", "technology", "digital", "robot"},
	},
}

// Classify maps an activity's name and description to a category tag.
// Groups are tested in Precedence order and the first match wins; if nothing
// matches the default is Academic. Total: never fails, always returns a tag.
// POST: Returns one of the five category constants
func Classify(name, description string) string {
	lowerName := strings.ToLower(name)
	lowerDesc := strings.ToLower(description)

	for _, g := range groups {
		if matchesAny(lowerName, g.nameWords) || matchesAny(lowerDesc, g.descWords) {
			return g.category
		}
	}
	return Academic
}

// IsValid reports whether tag is one of the five category constants.
func IsValid(tag string) bool {
	for _, c := range Precedence {
		if c == tag {
			return true
		}
	}
	return false
}

func matchesAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
