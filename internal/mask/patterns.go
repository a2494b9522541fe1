package mask

// BuiltInRule defines a named built-in masking pattern.
type BuiltInRule struct {
	Name        string
	Pattern     string
	Token       string // Placeholder name rendered as <TOKEN>
	Description string
}

// Built-in masking patterns for common variable substrings. Order of
// application is decided by the caller; overlapping patterns (ipv4 vs
// number) should be enabled most-specific-first.
var BuiltInRules = map[string]BuiltInRule{
	"ipv4": {
		Name:        "ipv4",
		Pattern:     `\b(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`,
		Token:       "IP",
		Description: "IPv4 addresses",
	},
	"uuid": {
		Name:        "uuid",
		Pattern:     `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`,
		Token:       "UUID",
		Description: "UUIDs",
	},
	"hex": {
		Name:        "hex",
		Pattern:     `\b0[xX][0-9a-fA-F]+\b`,
		Token:       "HEX",
		Description: "Hex literals",
	},
	"number": {
		Name:        "number",
		Pattern:     `\b\d+(\.\d+)?\b`,
		Token:       "NUM",
		Description: "Integers and decimals",
	},
	"email": {
		Name:        "email",
		Pattern:     `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
		Token:       "EMAIL",
		Description: "Email addresses",
	},
	"mac_address": {
		Name:        "mac_address",
		Pattern:     `\b(?:[0-9A-Fa-f]{2}[:-]){5}(?:[0-9A-Fa-f]{2})\b`,
		Token:       "MAC",
		Description: "MAC addresses",
	},
}

// DefaultRuleNames returns the recommended rules in application order.
// Specific patterns come before the generic number rule so that IPs and
// UUIDs are not shredded into <NUM> fragments.
func DefaultRuleNames() []string {
	return []string{"ipv4", "uuid", "hex", "number"}
}
