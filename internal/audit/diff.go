// Package audit compares audit snapshots field by field and renders the result for display.
package audit

import (
	"sort"

	"numis/console/internal/audit/domain"
)

// FieldChange is one field whose serialized value differs between snapshots.
// A nil Before or After means the field is absent from that snapshot.
type FieldChange struct {
	Field  string
	Before *domain.Value
	After  *domain.Value
}

// Diff returns the fields of before and after whose canonical serializations differ, sorted by
// field name. If either snapshot is absent there is nothing to compare and Diff returns nil.
func Diff(before, after domain.Object) []FieldChange {
	if before == nil || after == nil {
		return nil
	}
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}
	fields := make([]string, 0, len(keys))
	for k := range keys {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var changes []FieldChange
	for _, f := range fields {
		b := lookup(before, f)
		a := lookup(after, f)
		if serialize(b) != serialize(a) {
			changes = append(changes, FieldChange{Field: f, Before: b, After: a})
		}
	}
	return changes
}

// Changes diffs the snapshots of a record.
func Changes(rec *domain.AuditLog) []FieldChange {
	if rec == nil {
		return nil
	}
	return Diff(rec.Before, rec.After)
}

func lookup(o domain.Object, key string) *domain.Value {
	v, ok := o.Get(key)
	if !ok {
		return nil
	}
	return &v
}

// serialize distinguishes an absent field from an explicit null.
func serialize(v *domain.Value) string {
	if v == nil {
		return ""
	}
	return v.Canonical()
}
