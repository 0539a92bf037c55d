package issue

import "testing"

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityCritical, "critical"},
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
	}

	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", int(tt.sev), got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Severity
		wantErr bool
	}{
		{"critical", "critical", SeverityCritical, false},
		{"error", "error", SeverityError, false},
		{"warning", "warning", SeverityWarning, false},
		{"warn alias", "warn", SeverityWarning, false},
		{"info", "info", SeverityInfo, false},
		{"uppercase", "ERROR", SeverityError, false},
		{"unknown", "fatal", SeverityInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityInfo < SeverityWarning && SeverityWarning < SeverityError && SeverityError < SeverityCritical) {
		t.Fatal("severity values must be ordered info < warning < error < critical")
	}
}

func TestListCounts(t *testing.T) {
	l := NewList()
	l.Add(Issue{Path: "a.liquid", Severity: SeverityCritical, Rule: "x"})
	l.Add(Issue{Path: "a.liquid", Severity: SeverityError, Rule: "y"})
	l.Add(Issue{Path: "b.liquid", Severity: SeverityWarning, Rule: "z"})
	l.Add(Issue{Path: "b.liquid", Severity: SeverityWarning, Rule: "z"})

	if got := l.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := l.CountAtLeast(SeverityError); got != 2 {
		t.Errorf("CountAtLeast(Error) = %d, want 2", got)
	}
	if got := l.CountBySeverity(SeverityWarning); got != 2 {
		t.Errorf("CountBySeverity(Warning) = %d, want 2", got)
	}
}

func TestListSortDeterministic(t *testing.T) {
	l := NewList()
	l.Add(Issue{Path: "b.liquid", Line: 3, Rule: "r1"})
	l.Add(Issue{Path: "a.liquid", Line: 9, Rule: "r2"})
	l.Add(Issue{Path: "a.liquid", Line: 2, Rule: "r3"})
	l.Add(Issue{Path: "a.liquid", Line: 2, Rule: "r1"})

	l.Sort()

	want := []struct {
		path string
		line int
		rule string
	}{
		{"a.liquid", 2, "r1"},
		{"a.liquid", 2, "r3"},
		{"a.liquid", 9, "r2"},
		{"b.liquid", 3, "r1"},
	}
	for i, w := range want {
		got := l.Issues[i]
		if got.Path != w.path || got.Line != w.line || got.Rule != w.rule {
			t.Errorf("Issues[%d] = %s:%d %s, want %s:%d %s",
				i, got.Path, got.Line, got.Rule, w.path, w.line, w.rule)
		}
	}
}

func TestListFixable(t *testing.T) {
	l := NewList()
	l.Add(Issue{Rule: "a", Fixable: true})
	l.Add(Issue{Rule: "b"})
	l.Add(Issue{Rule: "c", Fixable: true})

	fixable := l.Fixable()
	if len(fixable) != 2 {
		t.Fatalf("Fixable() returned %d issues, want 2", len(fixable))
	}
	if fixable[0].Rule != "a" || fixable[1].Rule != "c" {
		t.Errorf("Fixable() = %v, want rules a and c", fixable)
	}
}
