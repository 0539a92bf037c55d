package theme

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want FileKind
	}{
		{"section", "sections/hero-banner.liquid", KindSection},
		{"section nested root", "my-theme/sections/header.liquid", KindSection},
		{"block", "blocks/icon.liquid", KindBlock},
		{"snippet", "snippets/price.liquid", KindSnippet},
		{"layout singular", "layout/theme.liquid", KindLayout},
		{"layout plural", "layouts/checkout.liquid", KindLayout},
		{"template", "templates/product.liquid", KindTemplate},
		{"template subdir", "templates/customers/login.liquid", KindTemplate},
		{"locale", "locales/en.default.json", KindLocale},
		{"config", "config/settings_schema.json", KindConfig},
		{"asset", "assets/theme.css", KindAsset},
		{"unknown dir", "scripts/build.sh", KindUnknown},
		{"bare file", "README.md", KindUnknown},
		{"windows separators", `sections\hero.liquid`, KindSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsLiquid(t *testing.T) {
	if !IsLiquid("sections/hero.liquid") {
		t.Error("IsLiquid should accept .liquid files")
	}
	if !IsLiquid("sections/HERO.LIQUID") {
		t.Error("IsLiquid should be case-insensitive")
	}
	if IsLiquid("assets/theme.css") {
		t.Error("IsLiquid should reject non-liquid files")
	}
}

func TestSchemaExpectations(t *testing.T) {
	tests := []struct {
		kind     FileKind
		has      bool
		requires bool
	}{
		{KindSection, true, true},
		{KindBlock, true, true},
		{KindTemplate, true, false},
		{KindSnippet, false, false},
		{KindLayout, false, false},
		{KindUnknown, false, false},
	}

	for _, tt := range tests {
		if got := tt.kind.HasSchema(); got != tt.has {
			t.Errorf("%v.HasSchema() = %v, want %v", tt.kind, got, tt.has)
		}
		if got := tt.kind.RequiresSchema(); got != tt.requires {
			t.Errorf("%v.RequiresSchema() = %v, want %v", tt.kind, got, tt.requires)
		}
	}
}
