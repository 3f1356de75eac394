package caption

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentText splits cleaned narration text into caption-sized segments.
// Sentences that fit within maxCharsPerLine become one segment each; longer
// sentences are greedily word-packed. Words longer than the budget are kept
// whole and allowed to overflow. Returns no segments for empty or
// whitespace-only input.
func SegmentText(text string, maxCharsPerLine int) []Segment {
	var segments []Segment

	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !hasWordContent(sentence) {
			continue
		}

		if utf8.RuneCountInString(sentence) <= maxCharsPerLine {
			segments = append(segments, newSegment(sentence))
			continue
		}

		for _, line := range packWords(strings.Fields(sentence), maxCharsPerLine) {
			if !hasWordContent(line) {
				continue
			}
			segments = append(segments, newSegment(line))
		}
	}

	return segments
}

func newSegment(text string) Segment {
	return Segment{
		Text:      text,
		CharCount: utf8.RuneCountInString(text),
		WordCount: len(strings.Fields(text)),
	}
}

// splitSentences splits text after runs of sentence terminators, so "..."
// and "?!" stay attached to the sentence they close.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if !isSentenceTerminator(r) {
			continue
		}
		if i+1 < len(runes) && isSentenceTerminator(runes[i+1]) {
			continue
		}
		sentences = append(sentences, b.String())
		b.Reset()
	}

	if b.Len() > 0 {
		sentences = append(sentences, b.String())
	}
	return sentences
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// packWords greedily packs words into lines of at most maxLen runes,
// flushing a line whenever the next word would exceed the budget. A single
// word longer than the budget gets a line of its own, unsplit.
func packWords(words []string, maxLen int) []string {
	var lines []string
	var current []string
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if len(current) > 0 && currentLen+1+wordLen > maxLen {
			lines = append(lines, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
		current = append(current, word)
		if currentLen == 0 {
			currentLen = wordLen
		} else {
			currentLen += 1 + wordLen
		}
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// hasWordContent reports whether text contains at least one letter or digit,
// filtering out punctuation-only fragments.
func hasWordContent(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// CleanNarration collapses all whitespace runs in raw narration text into
// single spaces and trims the result.
func CleanNarration(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
