package caption

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSegmentText_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		segments := SegmentText(input, 35)
		if len(segments) != 0 {
			t.Errorf("SegmentText(%q) = %d segments, want 0", input, len(segments))
		}
	}
}

func TestSegmentText_PunctuationOnlyDropped(t *testing.T) {
	segments := SegmentText("... !!! ???", 35)
	if len(segments) != 0 {
		t.Errorf("expected punctuation-only input to produce 0 segments, got %d", len(segments))
	}
}

func TestSegmentText_ShortSentencePerSegment(t *testing.T) {
	segments := SegmentText("Ready to transform your mornings? Here are five habits.", 35)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Ready to transform your mornings?" {
		t.Errorf("first segment = %q", segments[0].Text)
	}
	if segments[1].Text != "Here are five habits." {
		t.Errorf("second segment = %q", segments[1].Text)
	}
	if segments[0].WordCount != 5 {
		t.Errorf("first segment WordCount = %d, want 5", segments[0].WordCount)
	}
	if segments[1].CharCount != utf8.RuneCountInString(segments[1].Text) {
		t.Errorf("CharCount = %d, want %d", segments[1].CharCount, utf8.RuneCountInString(segments[1].Text))
	}
}

func TestSegmentText_LongSentenceWordPacked(t *testing.T) {
	text := "This single sentence easily runs past the thirty five character budget and must be packed."
	segments := SegmentText(text, 35)
	if len(segments) < 2 {
		t.Fatalf("expected long sentence to be split, got %d segments", len(segments))
	}
	for _, seg := range segments {
		if seg.CharCount > 35 {
			t.Errorf("segment %q has %d chars, budget 35", seg.Text, seg.CharCount)
		}
	}
	// No word may be lost or split.
	rejoined := strings.Join(strings.Fields(text), " ")
	var parts []string
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	if strings.Join(parts, " ") != rejoined {
		t.Errorf("segments do not rejoin to the original sentence:\n%s", strings.Join(parts, " "))
	}
}

func TestSegmentText_OverlongWordKeptWhole(t *testing.T) {
	word := "supercalifragilisticexpialidocious-neuroplasticity"
	segments := SegmentText("Try "+word+" now.", 10)
	found := false
	for _, seg := range segments {
		if seg.Text == word {
			found = true
		}
		if strings.Contains(seg.Text, "-neuro") && seg.Text != word {
			t.Errorf("overlong word was split: %q", seg.Text)
		}
	}
	if !found {
		t.Errorf("overlong word not kept whole in segments %v", segments)
	}
}

func TestSegmentText_TerminatorRunsStayAttached(t *testing.T) {
	segments := SegmentText("Wait... what?! Exactly.", 35)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %v", len(segments), segments)
	}
	if segments[0].Text != "Wait..." {
		t.Errorf("first segment = %q, want 'Wait...'", segments[0].Text)
	}
	if segments[1].Text != "what?!" {
		t.Errorf("second segment = %q, want 'what?!'", segments[1].Text)
	}
}

func TestSegmentText_NonEmptyInputAlwaysYieldsSegments(t *testing.T) {
	inputs := []string{
		"One",
		"No terminator at all in this text",
		"a. b. c. d. e.",
		"word",
	}
	for _, input := range inputs {
		if segments := SegmentText(input, 35); len(segments) < 1 {
			t.Errorf("SegmentText(%q) returned no segments", input)
		}
	}
}

func TestCleanNarration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\none\n\nline two", "line one line two"},
		{"\t\n ", ""},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := CleanNarration(tt.in); got != tt.want {
			t.Errorf("CleanNarration(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
