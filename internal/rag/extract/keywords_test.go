package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		path     string
		expected DocType
	}{
		{"test.pdf", PDF},
		{"DOC.DOCX", DOCX},
		{"notes.txt", DOCX},
		{"memo.rtf", DOCX},
		{"image.png", ERR},
		{"noextension", ERR},
	}

	for _, tt := range tests {
		if got := DetectType(tt.path); got != tt.expected {
			t.Errorf("DetectType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestKeywordsDeterministic(t *testing.T) {
	text := "Invoices are processed monthly. Invoices above threshold need approval, approval comes from finance."

	first := Keywords(text)
	second := Keywords(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced %v and %v", first, second)
	}
}

func TestKeywordsFrequencyThenFirstSeen(t *testing.T) {
	text := "alpha beta beta gamma alpha beta delta"

	got := Keywords(text)
	want := []string{"beta", "alpha", "gamma", "delta"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v; want %v", got, want)
	}
}

func TestKeywordsFiltersShortAndStopWords(t *testing.T) {
	got := Keywords("the cat sat with them because reasons")

	for _, kw := range got {
		if kw == "cat" || kw == "sat" {
			t.Errorf("short token %q survived", kw)
		}
		if kw == "with" || kw == "them" || kw == "because" {
			t.Errorf("stop word %q survived", kw)
		}
	}
	if len(got) != 1 || got[0] != "reasons" {
		t.Errorf("Keywords = %v; want [reasons]", got)
	}
}

func TestKeywordsStripsPunctuationAndCaps(t *testing.T) {
	got := Keywords("Refunds! REFUNDS? (refunds)")

	if !reflect.DeepEqual(got, []string{"refunds"}) {
		t.Errorf("Keywords = %v; want [refunds]", got)
	}
}

func TestKeywordsCapped(t *testing.T) {
	var words []string
	for _, w := range []string{
		"mercury", "venus", "earth", "mars", "jupiter", "saturn",
		"uranus", "neptune", "ceres", "pluto", "charon", "titan",
	} {
		words = append(words, w)
	}

	got := Keywords(strings.Join(words, " "))
	if len(got) != maxKeywords {
		t.Errorf("got %d keywords, want %d", len(got), maxKeywords)
	}
}
