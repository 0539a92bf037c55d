package walker

import (
	"os"
	"path/filepath"
	"testing"

	"themelab-hq/triton/pkg/theme"
)

func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestWalkEnumeratesThemeFiles(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"sections/hero.liquid":    "{{ product.title }}",
		"snippets/card.liquid":    "card",
		"layout/theme.liquid":     "layout",
		"templates/index.json":    "{}",
		"config/settings_data.json": "{}",
		"assets/theme.css":        "body{}",
		"README.md":               "readme",
		".git/config":             "x",
	})

	files, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := map[string]theme.FileKind{}
	for _, f := range files {
		got[f.Path] = f.Kind
	}
	want := map[string]theme.FileKind{
		"sections/hero.liquid":      theme.KindSection,
		"snippets/card.liquid":      theme.KindSnippet,
		"layout/theme.liquid":       theme.KindLayout,
		"templates/index.json":      theme.KindTemplate,
		"config/settings_data.json": theme.KindConfig,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(got), got, len(want))
	}
	for path, kind := range want {
		if got[path] != kind {
			t.Errorf("%s classified as %s, want %s", path, got[path], kind)
		}
	}
}

func TestWalkSortsByPath(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"snippets/z.liquid": "z",
		"snippets/a.liquid": "a",
		"sections/m.liquid": "m",
	})
	files, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].Path >= files[i].Path {
			t.Fatalf("files out of order: %q before %q", files[i-1].Path, files[i].Path)
		}
	}
}

func TestWalkExcludes(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"snippets/keep.liquid":      "k",
		"snippets/skip.liquid":      "s",
		"sections/wip-hero.liquid":  "b",
	})
	files, err := Walk(root, []string{"snippets/skip.liquid", "wip-*.liquid"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].Path != "snippets/keep.liquid" {
		t.Fatalf("files = %+v, want only keep.liquid", files)
	}
}

func TestWalkReportsMissingRoot(t *testing.T) {
	if _, err := Walk(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkKeepsUnreadableFiles(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"snippets/card.liquid": "card",
	})
	// A dangling symlink reads like any other I/O failure.
	broken := filepath.Join(root, "snippets", "broken.liquid")
	if err := os.Symlink(filepath.Join(root, "missing"), broken); err != nil {
		t.Fatal(err)
	}

	files, err := Walk(root, nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}

	byPath := map[string]File{}
	for _, f := range files {
		byPath[f.Path] = f
	}
	bad, ok := byPath["snippets/broken.liquid"]
	if !ok {
		t.Fatal("unreadable file missing from the walk")
	}
	if bad.Err == nil {
		t.Error("unreadable file should carry its read error")
	}
	if bad.Source != "" {
		t.Errorf("unreadable file source = %q, want empty", bad.Source)
	}
	if good := byPath["snippets/card.liquid"]; good.Err != nil || good.Source != "card" {
		t.Errorf("readable file = %+v, want intact", good)
	}
}
