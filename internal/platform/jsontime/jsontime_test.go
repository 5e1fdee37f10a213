package jsontime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshal_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{`"2024-03-01T10:20:30.5+00:00"`, time.Date(2024, 3, 1, 10, 20, 30, 5e8, time.UTC)},
		{`"2024-03-01T10:20:30.123456"`, time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{`"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var got Time
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}
}

func TestUnmarshal_NullAndGarbage(t *testing.T) {
	var got Time
	if err := json.Unmarshal([]byte("null"), &got); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !got.IsZero() {
		t.Error("null should leave zero time")
	}
	if err := json.Unmarshal([]byte(`"yesterday"`), &got); err == nil {
		t.Error("expected error for unrecognized timestamp")
	}
}

func TestFormat_Zero(t *testing.T) {
	if got := (Time{}).Format("2006-01-02"); got != "—" {
		t.Errorf("zero Format = %q", got)
	}
	ts := Time{time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)}
	if got := ts.Format("2006-01-02 15:04:05"); got != "2024-03-01 10:20:30" {
		t.Errorf("Format = %q", got)
	}
}
