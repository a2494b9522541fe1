package output

import (
	"strings"
	"testing"

	"github.com/bimmerbailey/drift/internal/drain"
)

func sampleClusters() []drain.Cluster {
	return []drain.Cluster{
		{ID: 1, Template: []string{"User", "<NUM>", "login", "from", "<IP>"}, Matches: 12},
		{ID: 2, Template: []string{"service", "started"}, Matches: 3},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"table", FormatTable},
		{"text", FormatText},
		{"anything else", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteClustersText(t *testing.T) {
	var sb strings.Builder
	if err := New(&sb, FormatText).WriteClusters(sampleClusters()); err != nil {
		t.Fatalf("WriteClusters() error = %v", err)
	}

	got := sb.String()
	if !strings.Contains(got, "User <NUM> login from <IP>") {
		t.Errorf("text output missing template: %q", got)
	}
	if !strings.Contains(got, "(12)") {
		t.Errorf("text output missing match count: %q", got)
	}
}

func TestWriteClustersJSON(t *testing.T) {
	var sb strings.Builder
	if err := New(&sb, FormatJSON).WriteClusters(sampleClusters()); err != nil {
		t.Fatalf("WriteClusters() error = %v", err)
	}
	if !strings.Contains(sb.String(), `"ID": 1`) {
		t.Errorf("json output missing cluster id: %q", sb.String())
	}
}

func TestWriteClustersTable(t *testing.T) {
	var sb strings.Builder
	if err := New(&sb, FormatTable).WriteClusters(sampleClusters()); err != nil {
		t.Fatalf("WriteClusters() error = %v", err)
	}

	got := sb.String()
	if !strings.Contains(got, "TEMPLATE") {
		t.Errorf("table output missing header: %q", got)
	}
	if !strings.Contains(got, "service started") {
		t.Errorf("table output missing row: %q", got)
	}
}
