package output

import (
	"strings"
	"testing"
)

func TestRenderWrapTableEmpty(t *testing.T) {
	got := renderWrapTable(nil, false)
	if got != "No wrapped programs.\n" {
		t.Errorf("renderWrapTable(nil) = %q", got)
	}
}

func TestRenderWrapTableSortsAndFormats(t *testing.T) {
	rows := []*WrapRow{
		{Target: "/usr/bin/zz", Details: "1 arg(s)", Package: "zz-pkg", Status: "active"},
		{Target: "/usr/bin/aa", Details: "2 env var(s)", Status: "no hooks"},
	}

	got := renderWrapTable(rows, false)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[2], "/usr/bin/aa") || !strings.Contains(lines[3], "/usr/bin/zz") {
		t.Errorf("rows not sorted by target:\n%s", got)
	}
	if !strings.Contains(lines[2], "-") {
		t.Errorf("empty package not rendered as '-':\n%s", got)
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("color codes emitted with color disabled:\n%q", got)
	}
}

func TestRenderWrapTableColors(t *testing.T) {
	rows := []*WrapRow{{Target: "/usr/bin/foo", Details: "-", Status: "broken"}}
	got := renderWrapTable(rows, true)
	if !strings.Contains(got, colorRed+"broken"+colorReset) {
		t.Errorf("broken status not colored red:\n%q", got)
	}
}

func TestSummarizeInjections(t *testing.T) {
	cases := []struct {
		args, env int
		want      string
	}{
		{0, 0, "-"},
		{2, 0, "2 arg(s)"},
		{0, 1, "1 env var(s)"},
		{1, 3, "1 arg(s), 3 env var(s)"},
	}
	for _, c := range cases {
		if got := SummarizeInjections(c.args, c.env); got != c.want {
			t.Errorf("SummarizeInjections(%d, %d) = %q, want %q", c.args, c.env, got, c.want)
		}
	}
}
