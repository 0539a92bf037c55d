package liquid

import (
	"strings"
	"testing"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/theme"
)

func scan(t *testing.T, src string) *Document {
	t.Helper()
	return Scan("sections/test.liquid", theme.KindSection, src)
}

func TestScanTokens(t *testing.T) {
	src := "<div>\n{% if product.available %}\n{{ product.title | escape }}\n{% endif %}\n</div>"
	doc := scan(t, src)

	if doc.Issues.Len() != 0 {
		t.Fatalf("expected no structural issues, got %v", doc.Issues.Issues)
	}
	if len(doc.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(doc.Tags))
	}
	if doc.Tags[0].Name != "if" || doc.Tags[0].Line != 2 || doc.Tags[0].Closing {
		t.Errorf("tag[0] = %+v, want open 'if' on line 2", doc.Tags[0])
	}
	if doc.Tags[0].Args != "product.available" {
		t.Errorf("tag[0].Args = %q, want %q", doc.Tags[0].Args, "product.available")
	}
	if doc.Tags[1].Name != "endif" || doc.Tags[1].Line != 4 || !doc.Tags[1].Closing {
		t.Errorf("tag[1] = %+v, want closing 'endif' on line 4", doc.Tags[1])
	}
	if len(doc.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(doc.Outputs))
	}
	if doc.Outputs[0].Expr != "product.title | escape" || doc.Outputs[0].Line != 3 {
		t.Errorf("output[0] = %+v, want trimmed expr on line 3", doc.Outputs[0])
	}
}

func TestScanWhitespaceControl(t *testing.T) {
	doc := scan(t, "{%- if true -%}{{- x -}}{%- endif -%}")
	if len(doc.Tags) != 2 || doc.Tags[0].Name != "if" || doc.Tags[1].Name != "endif" {
		t.Fatalf("dash-trimmed tags not recognized: %+v", doc.Tags)
	}
	if len(doc.Outputs) != 1 || doc.Outputs[0].Expr != "x" {
		t.Fatalf("dash-trimmed output not recognized: %+v", doc.Outputs)
	}
}

func TestScanSchemaBlock(t *testing.T) {
	src := "hello\n{% schema %}\n{\"name\": \"Hero\"}\n{% endschema %}\nbye"
	doc := scan(t, src)

	if len(doc.Schemas) != 1 {
		t.Fatalf("expected 1 schema block, got %d", len(doc.Schemas))
	}
	blk := doc.Schemas[0]
	if blk.Line != 2 {
		t.Errorf("schema block line = %d, want 2", blk.Line)
	}
	body := strings.TrimSpace(src[blk.Start:blk.End])
	if body != `{"name": "Hero"}` {
		t.Errorf("schema body = %q", body)
	}
	// schema/endschema must not appear in the tag stream
	for _, tok := range doc.Tags {
		if tok.Name == "schema" || tok.Name == "endschema" {
			t.Errorf("schema tag leaked into tag stream: %+v", tok)
		}
	}
}

func TestScanUnterminatedSchemaBlock(t *testing.T) {
	src := "{% schema %}\n{\"name\": \"Hero\"}\n{% if x %}{% endif %}"
	doc := scan(t, src)

	crit := doc.Issues.CountBySeverity(issue.SeverityCritical)
	if crit != 1 {
		t.Fatalf("expected 1 critical issue, got %d: %v", crit, doc.Issues.Issues)
	}
	if doc.Issues.Issues[0].Rule != RuleUnterminatedBlock {
		t.Errorf("rule = %q, want %q", doc.Issues.Issues[0].Rule, RuleUnterminatedBlock)
	}
	// Scan continues past the unterminated block.
	if len(doc.Tags) != 2 {
		t.Errorf("expected scan to continue and find 2 tags, got %d", len(doc.Tags))
	}
}

func TestScanOpaqueBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"raw", "{% raw %}{{ not.a.token }}{% if broken %}{% endraw %}ok"},
		{"comment", "{% comment %}{% for x in y %}{% endcomment %}ok"},
		{"style", "{% style %}.a { color: {{ settings.c }}; }{% endstyle %}ok"},
		{"javascript", "{% javascript %}if (a) { b(); }{% endjavascript %}ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := scan(t, tt.src)
			if len(doc.Tags) != 0 {
				t.Errorf("opaque block leaked tags: %+v", doc.Tags)
			}
			if len(doc.Outputs) != 0 {
				t.Errorf("opaque block leaked outputs: %+v", doc.Outputs)
			}
			if doc.Issues.Len() != 0 {
				t.Errorf("unexpected issues: %v", doc.Issues.Issues)
			}
		})
	}
}

func TestScanUnterminatedMarkers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rule string
	}{
		{"output", "before {{ product.title", RuleUnterminatedOutput},
		{"tag", "before {% if x", RuleUnterminatedTag},
		{"raw block", "{% raw %} no end", RuleUnterminatedBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := scan(t, tt.src)
			if doc.Issues.Len() != 1 {
				t.Fatalf("expected 1 issue, got %v", doc.Issues.Issues)
			}
			got := doc.Issues.Issues[0]
			if got.Rule != tt.rule || got.Severity != issue.SeverityCritical {
				t.Errorf("issue = %+v, want critical %s", got, tt.rule)
			}
		})
	}
}

func TestScanLiquidTagIsSelfClosing(t *testing.T) {
	doc := scan(t, "{% liquid\nassign a = 1\nassign b = 2\n%}")
	if len(doc.Tags) != 1 || doc.Tags[0].Name != "liquid" {
		t.Fatalf("tags = %+v, want single liquid tag", doc.Tags)
	}
	if !IsSelfClosing("liquid") {
		t.Error("liquid tag must be self-closing")
	}
}

func TestScanLinearOnPathologicalInput(t *testing.T) {
	// A long run of open braces used to send greedy matchers into
	// catastrophic backtracking. The scanner must stay linear.
	src := strings.Repeat("{", 50_000) + strings.Repeat("{% if x %}{% endif %}", 1000)
	doc := scan(t, src)
	if len(doc.Tags) != 2000 {
		t.Fatalf("expected 2000 tags, got %d", len(doc.Tags))
	}
}

func TestIsKnownTag(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"if", true},
		{"endif", true},
		{"assign", true},
		{"endschema", true},
		{"endcomment", true},
		{"doc", false},
		{"frobnicate", false},
		{"endfrobnicate", false},
	}
	for _, tt := range tests {
		if got := IsKnownTag(tt.name); got != tt.want {
			t.Errorf("IsKnownTag(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
