package tools

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"
	"unicode"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.?/"

	MinPasswordLength = 4
	MaxPasswordLength = 128
)

// PasswordOptions selects the generated password's length and alphabet.
type PasswordOptions struct {
	Length  int  `json:"length"`
	Lower   bool `json:"lower"`
	Upper   bool `json:"upper"`
	Digits  bool `json:"digits"`
	Symbols bool `json:"symbols"`
}

// DefaultPasswordOptions is 16 characters from every class.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Length: 16, Lower: true, Upper: true, Digits: true, Symbols: true}
}

func (o PasswordOptions) classes() []string {
	var classes []string
	if o.Lower {
		classes = append(classes, lowerChars)
	}
	if o.Upper {
		classes = append(classes, upperChars)
	}
	if o.Digits {
		classes = append(classes, digitChars)
	}
	if o.Symbols {
		classes = append(classes, symbolChars)
	}
	return classes
}

// GeneratePassword draws a password from crypto/rand containing at least
// one character of every selected class.
func GeneratePassword(opts PasswordOptions) (string, error) {
	if opts.Length < MinPasswordLength || opts.Length > MaxPasswordLength {
		return "", &models.ValidationError{Field: "length", Reason: "must be between 4 and 128"}
	}
	classes := opts.classes()
	if len(classes) == 0 {
		return "", &models.ValidationError{Field: "classes", Reason: "select at least one character class"}
	}

	alphabet := strings.Join(classes, "")
	out := make([]byte, opts.Length)
	for i, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(classes); i < opts.Length; i++ {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Fisher-Yates so the guaranteed characters are not always first.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(alphabet string) (byte, error) {
	i, err := randInt(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// PasswordStrength scores a password from 0 (very weak) to 4 (very strong).
type PasswordStrength struct {
	Score       int      `json:"score"`
	Label       string   `json:"label"`
	EntropyBits float64  `json:"entropyBits"`
	Suggestions []string `json:"suggestions"`
}

var strengthLabels = []string{"very weak", "weak", "fair", "strong", "very strong"}

var commonPasswords = map[string]bool{
	"password": true, "123456": true, "12345678": true, "qwerty": true, "letmein": true,
	"111111": true, "iloveyou": true, "admin": true, "welcome": true, "abc123": true,
}

// ScorePassword estimates entropy from length and character pool and maps it
// onto a 0–4 score. Common passwords and single-class passwords are penalised.
func ScorePassword(pw string) PasswordStrength {
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	pool, classes := 0, 0
	var suggestions []string
	for _, c := range []struct {
		present bool
		size    int
		hint    string
	}{
		{lower, 26, "add lower-case letters"},
		{upper, 26, "add upper-case letters"},
		{digit, 10, "add digits"},
		{symbol, 32, "add symbols"},
	} {
		if c.present {
			pool += c.size
			classes++
		} else {
			suggestions = append(suggestions, c.hint)
		}
	}

	length := len([]rune(pw))
	entropy := 0.0
	if pool > 0 {
		entropy = float64(length) * math.Log2(float64(pool))
	}
	if length < 12 {
		suggestions = append(suggestions, "use at least 12 characters")
	}

	var score int
	switch {
	case entropy < 28:
		score = 0
	case entropy < 36:
		score = 1
	case entropy < 60:
		score = 2
	case entropy < 80:
		score = 3
	default:
		score = 4
	}
	if classes <= 1 && score > 1 {
		score = 1
	}
	if commonPasswords[strings.ToLower(pw)] {
		score = 0
		suggestions = append(suggestions, "avoid common passwords")
	}

	if suggestions == nil {
		suggestions = []string{}
	}
	return PasswordStrength{
		Score:       score,
		Label:       strengthLabels[score],
		EntropyBits: round(entropy, 1),
		Suggestions: suggestions,
	}
}
