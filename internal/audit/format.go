package audit

import (
	"bytes"
	"encoding/json"

	"numis/console/internal/audit/domain"
)

// Placeholder is shown for absent, null and empty values.
const Placeholder = "—"

// Format renders a snapshot value for display. Absent, null and empty strings become the
// placeholder, scalars their literal text, arrays and objects indented JSON.
func Format(v *domain.Value) string {
	if v == nil {
		return Placeholder
	}
	switch v.Kind() {
	case domain.KindNull:
		return Placeholder
	case domain.KindString:
		return FormatText(v.Str())
	case domain.KindNumber, domain.KindBool:
		return v.Canonical()
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(v.Canonical()), "", "  "); err != nil {
			return v.Canonical()
		}
		return buf.String()
	}
}

// FormatText renders an already textual value. Format output passed back through FormatText is
// returned unchanged.
func FormatText(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
