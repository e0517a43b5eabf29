package tools

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const maxUsernames = 50

var (
	usernameAdjectives = []string{"swift", "calm", "bold", "lucky", "steady", "sharp", "quiet", "brave", "clever", "prime"}
	usernameNouns      = []string{"trader", "falcon", "bull", "bear", "pip", "candle", "wolf", "hawk", "ledger", "scalper"}
	nonAlnum           = regexp.MustCompile(`[^a-z0-9]+`)
)

// UsernameOptions controls username generation. Keyword, if set, replaces the noun.
type UsernameOptions struct {
	Keyword    string `json:"keyword"`
	Count      int    `json:"count"`
	WithDigits bool   `json:"withDigits"`
}

// GenerateUsernames returns Count distinct adjective+noun names drawn from rng.
func GenerateUsernames(rng *rand.Rand, opts UsernameOptions) ([]string, error) {
	if opts.Count < 1 || opts.Count > maxUsernames {
		return nil, &models.ValidationError{Field: "count", Reason: "must be between 1 and 50"}
	}
	keyword := nonAlnum.ReplaceAllString(strings.ToLower(opts.Keyword), "")
	if opts.Keyword != "" && keyword == "" {
		return nil, &models.ValidationError{Field: "keyword", Reason: "must contain letters or digits"}
	}

	// Without digits there are only len(adjectives)·len(nouns) combinations.
	limit := len(usernameAdjectives) * len(usernameNouns)
	if keyword != "" {
		limit = len(usernameAdjectives)
	}
	if !opts.WithDigits && opts.Count > limit {
		return nil, &models.ValidationError{Field: "count", Reason: fmt.Sprintf("at most %d names without digits", limit)}
	}

	seen := make(map[string]bool, opts.Count)
	out := make([]string, 0, opts.Count)
	for len(out) < opts.Count {
		noun := keyword
		if noun == "" {
			noun = usernameNouns[rng.Intn(len(usernameNouns))]
		}
		name := usernameAdjectives[rng.Intn(len(usernameAdjectives))] + "_" + noun
		if opts.WithDigits {
			name += fmt.Sprintf("%02d", rng.Intn(100))
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}
