package rules

import (
	"strings"
	"testing"
)

func TestUnknownTag(t *testing.T) {
	src := "{% if a %}{% frobnicate %}{% endif %}"
	matches := matchesFor(t, RuleUnknownTag, src)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if !strings.Contains(matches[0].Message, "frobnicate") {
		t.Errorf("message = %q, want mention of frobnicate", matches[0].Message)
	}
}

func TestUnknownTagIgnoresKnownConstructs(t *testing.T) {
	src := "{% assign x = 1 %}{% for p in collection.products limit: 4 %}{{ p.title }}{% endfor %}"
	if got := matchesFor(t, RuleUnknownTag, src); len(got) != 0 {
		t.Fatalf("got %d matches, want 0: %v", len(got), got)
	}
}

func TestDeprecatedTagFix(t *testing.T) {
	src := "{% doc %}internal note{% enddoc %}"
	matches := matchesFor(t, RuleDeprecatedTag, src)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if !m.HasFix {
			t.Fatalf("match %q should carry a fix", m.Message)
		}
	}
	if got := src[matches[0].FixStart:matches[0].FixEnd]; got != "doc" {
		t.Errorf("first fix span = %q, want %q", got, "doc")
	}
	if matches[0].FixText != "comment" {
		t.Errorf("first fix text = %q, want %q", matches[0].FixText, "comment")
	}
	if got := src[matches[1].FixStart:matches[1].FixEnd]; got != "enddoc" {
		t.Errorf("second fix span = %q, want %q", got, "enddoc")
	}
	if matches[1].FixText != "endcomment" {
		t.Errorf("second fix text = %q, want %q", matches[1].FixText, "endcomment")
	}

	// The unknown-tag rule must not double-report doc tags.
	if got := matchesFor(t, RuleUnknownTag, src); len(got) != 0 {
		t.Errorf("unknown-tag rule also matched: %d matches", len(got))
	}
}

func TestDeprecatedTagFixIdempotent(t *testing.T) {
	fixed := "{% comment %}internal note{% endcomment %}"
	if got := matchesFor(t, RuleDeprecatedTag, fixed); len(got) != 0 {
		t.Fatalf("got %d matches on fixed text, want 0", len(got))
	}
}
