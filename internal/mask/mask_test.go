package mask

import (
	"testing"
)

func TestMaskerBuiltIns(t *testing.T) {
	m, err := FromNames(DefaultRuleNames(), nil)
	if err != nil {
		t.Fatalf("FromNames() error = %v", err)
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "numbers and IPs",
			raw:  "User 42 login from 10.0.0.1",
			want: "User <NUM> login from <IP>",
		},
		{
			name: "IP not shredded by number rule",
			raw:  "connect 192.168.1.100",
			want: "connect <IP>",
		},
		{
			name: "uuid",
			raw:  "request 550e8400-e29b-41d4-a716-446655440000 done",
			want: "request <UUID> done",
		},
		{
			name: "hex literal",
			raw:  "addr 0xDEADBEEF fault",
			want: "addr <HEX> fault",
		},
		{
			name: "decimal",
			raw:  "latency 1.25 ms",
			want: "latency <NUM> ms",
		},
		{
			name: "nothing variable",
			raw:  "service started",
			want: "service started",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Mask(tt.raw); got != tt.want {
				t.Errorf("Mask(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMaskerRuleOrder(t *testing.T) {
	// number before ipv4: the IP gets shredded, proving order matters.
	m, err := FromNames([]string{"number", "ipv4"}, nil)
	if err != nil {
		t.Fatalf("FromNames() error = %v", err)
	}

	// The decimal rule consumes "10.0" and "0.1" before ipv4 can see
	// the address.
	got := m.Mask("from 10.0.0.1")
	if got != "from <NUM>.<NUM>" {
		t.Errorf("Mask() = %q, expected number rule to win under this order", got)
	}
}

func TestMaskerCustomRules(t *testing.T) {
	m, err := FromNames(nil, []Rule{{Pattern: `session-[a-z0-9]+`, Name: "SESSION"}})
	if err != nil {
		t.Fatalf("FromNames() error = %v", err)
	}

	got := m.Mask("opened session-abc123 ok")
	if got != "opened <SESSION> ok" {
		t.Errorf("Mask() = %q", got)
	}
}

func TestMaskerConfigErrors(t *testing.T) {
	if _, err := New([]Rule{{Pattern: `(`, Name: "BAD"}}); err == nil {
		t.Error("New() with malformed pattern did not fail")
	}
	if _, err := New([]Rule{{Pattern: `\d+`, Name: ""}}); err == nil {
		t.Error("New() with empty name did not fail")
	}
	if _, err := FromNames([]string{"no_such_rule"}, nil); err == nil {
		t.Error("FromNames() with unknown rule did not fail")
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"<NUM>", true},
		{"<*>", true},
		{"<IP>", true},
		{"login", false},
		{"<>", false},
		{"<unclosed", false},
	}

	for _, tt := range tests {
		if got := IsPlaceholder(tt.token); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
