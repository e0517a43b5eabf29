package tools

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// wordsPerMinute is the reading speed behind ReadingTimeSeconds.
const wordsPerMinute = 200

var (
	sentenceEnd    = regexp.MustCompile(`[.!?]+(\s|$)`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// TextStats summarises a block of text.
type TextStats struct {
	Characters         int            `json:"characters"`
	CharactersNoSpaces int            `json:"charactersNoSpaces"`
	Words              int            `json:"words"`
	Sentences          int            `json:"sentences"`
	Paragraphs         int            `json:"paragraphs"`
	AverageWordLength  float64        `json:"averageWordLength"`
	ReadingTimeSeconds int            `json:"readingTimeSeconds"`
	TopWords           map[string]int `json:"topWords"`
}

// AnalyzeText counts characters, words, sentences and paragraphs. Text with
// words but no terminal punctuation counts as one sentence.
func AnalyzeText(text string) TextStats {
	stats := TextStats{TopWords: map[string]int{}}
	letters := 0
	for _, r := range text {
		stats.Characters++
		if !unicode.IsSpace(r) {
			stats.CharactersNoSpaces++
		}
	}

	words := strings.Fields(text)
	stats.Words = len(words)
	if stats.Words == 0 {
		return stats
	}

	counts := map[string]int{}
	for _, w := range words {
		clean := strings.ToLower(strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }))
		letters += len([]rune(clean))
		if clean != "" {
			counts[clean]++
		}
	}
	for w, n := range counts {
		if n > 1 {
			stats.TopWords[w] = n
		}
	}

	stats.Sentences = len(sentenceEnd.FindAllStringIndex(strings.TrimSpace(text), -1))
	if stats.Sentences == 0 {
		stats.Sentences = 1
	}
	for _, p := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		if strings.TrimSpace(p) != "" {
			stats.Paragraphs++
		}
	}
	stats.AverageWordLength = round(float64(letters)/float64(stats.Words), 2)
	stats.ReadingTimeSeconds = int(math.Ceil(float64(stats.Words) / wordsPerMinute * 60))
	return stats
}
