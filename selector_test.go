package xmledit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSelectorSegments(t *testing.T) {
	rule, err := parseSelector("main character", nil)
	if err != nil {
		t.Fatalf("parseSelector failed: %v", err)
	}

	if diff := cmp.Diff([]string{"main", "character"}, rule.segments); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}
	if rule.matchKey != "\x00main\x00character" {
		t.Errorf("unexpected matchKey %q", rule.matchKey)
	}
}

func TestParseSelectorCollapsesWhitespace(t *testing.T) {
	rule, err := parseSelector("  a \t\n  b   c  ", nil)
	if err != nil {
		t.Fatalf("parseSelector failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, rule.segments); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelectorRejectsInvalidToken(t *testing.T) {
	_, err := parseSelector("good 2bad", nil)
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
}

func TestParseSelectorRejectsEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := parseSelector(text, nil); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("parseSelector(%q): expected ErrInvalidSelector, got %v", text, err)
		}
	}
}

func TestSelectorMatching(t *testing.T) {
	tests := []struct {
		selector string
		path     string
		want     bool
	}{
		{"character", "\x00main\x00character", true},
		{"main character", "\x00main\x00character", true},
		{"main character", "\x00character", false},
		{"character", "\x00main\x00in-character", false},
		{"steak", "\x00mistake", false},
		{"a b", "\x00root\x00a\x00b", true},
		{"a b", "\x00root\x00b", false},
	}

	for _, tt := range tests {
		rule, err := parseSelector(tt.selector, nil)
		if err != nil {
			t.Fatalf("parseSelector(%q) failed: %v", tt.selector, err)
		}
		if got := rule.matches(tt.path); got != tt.want {
			t.Errorf("selector %q against path %q: expected %v, got %v", tt.selector, tt.path, tt.want, got)
		}
	}
}

func TestFindMatchDeclarationOrder(t *testing.T) {
	first, _ := parseSelector("b", nil)
	second, _ := parseSelector("a b", nil)
	rules := []*selectorRule{first, second}

	if got := findMatch(rules, "\x00a\x00b"); got != first {
		t.Errorf("expected first declared rule to win, got %v", got)
	}
	if got := findMatch(rules, "\x00a\x00c"); got != nil {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestChildPath(t *testing.T) {
	path := childPath("", "a")
	path = childPath(path, "b")
	if path != "\x00a\x00b" {
		t.Errorf("unexpected path %q", path)
	}
}
