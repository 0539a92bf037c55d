package autofix

import "testing"

func TestApplySingleEdit(t *testing.T) {
	res, err := Apply("{{ x | img_url }}", []Edit{{Start: 7, End: 14, Replacement: "image_url", Rule: "r"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "{{ x | image_url }}" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Applied != 1 || res.Deferred != 0 {
		t.Errorf("Applied = %d, Deferred = %d", res.Applied, res.Deferred)
	}
}

func TestApplyMultipleEditsOutOfOrder(t *testing.T) {
	src := "aaa bbb ccc"
	res, err := Apply(src, []Edit{
		{Start: 8, End: 11, Replacement: "C"},
		{Start: 0, End: 3, Replacement: "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "A bbb C" {
		t.Errorf("Text = %q, want %q", res.Text, "A bbb C")
	}
	if res.Applied != 2 {
		t.Errorf("Applied = %d, want 2", res.Applied)
	}
}

func TestApplyOverlappingEditsDefersLater(t *testing.T) {
	src := "0123456789"
	res, err := Apply(src, []Edit{
		{Start: 2, End: 6, Replacement: "X"},
		{Start: 4, End: 8, Replacement: "Y"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "01X6789" {
		t.Errorf("Text = %q, want earliest edit only", res.Text)
	}
	if res.Applied != 1 || res.Deferred != 1 {
		t.Errorf("Applied = %d, Deferred = %d, want 1 and 1", res.Applied, res.Deferred)
	}
}

func TestApplyInvalidSpan(t *testing.T) {
	if _, err := Apply("abc", []Edit{{Start: 2, End: 9, Rule: "broken"}}); err == nil {
		t.Fatal("expected error for out-of-bounds span")
	}
	if _, err := Apply("abc", []Edit{{Start: 2, End: 1, Rule: "broken"}}); err == nil {
		t.Fatal("expected error for inverted span")
	}
}

func TestApplyNoEdits(t *testing.T) {
	res, err := Apply("unchanged", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "unchanged" || res.Applied != 0 {
		t.Errorf("Apply with no edits changed the text: %+v", res)
	}
}
