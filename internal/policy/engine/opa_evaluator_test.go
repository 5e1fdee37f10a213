package engine

import (
	"context"
	"testing"
)

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, nil)
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	if err := e.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_Protected(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, nil)
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/", false},
		{"", false},
		{"/coins/12", false},
		{"/administrator", false},
		{"/admin/login", false},
		{"/admin/login/", false},
		{"/admin/login?next=/admin/coins", false},
		{"/admin", true},
		{"/admin/", true},
		{"/admin/dashboard", true},
		{"/admin/coins/edit/3", true},
		{"/admin/audit-logs?page=2", true},
		{"/admin/../admin/security", true},
		{"/admin/login/../coins", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := e.Protected(ctx, tt.path)
			if err != nil {
				t.Fatalf("Protected: %v", err)
			}
			if got != tt.want {
				t.Errorf("Protected(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestOPAEvaluator_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	policy := `package numis.route_access

default protected := false

protected if {
	input.segments[0] == "private"
}
`
	e, err := NewOPAEvaluatorWithPolicy(ctx, policy, nil)
	if err != nil {
		t.Fatalf("NewOPAEvaluatorWithPolicy: %v", err)
	}
	if got, _ := e.Protected(ctx, "/private/x"); !got {
		t.Error("/private/x should be protected")
	}
	if got, _ := e.Protected(ctx, "/admin"); got {
		t.Error("/admin should be public under the custom policy")
	}
}

func TestOPAEvaluator_NonBoolFailsClosed(t *testing.T) {
	ctx := context.Background()
	policy := `package numis.route_access

protected := "yes"
`
	e, err := NewOPAEvaluatorWithPolicy(ctx, policy, nil)
	if err != nil {
		t.Fatalf("NewOPAEvaluatorWithPolicy: %v", err)
	}
	got, err := e.Protected(ctx, "/")
	if err == nil || !got {
		t.Errorf("got=%v err=%v, want protected with error", got, err)
	}
}

func TestNewOPAEvaluatorWithPolicy_CompileError(t *testing.T) {
	if _, err := NewOPAEvaluatorWithPolicy(context.Background(), "package", nil); err == nil {
		t.Fatal("want compile error")
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":               "/",
		"admin":          "/admin",
		"/admin/":        "/admin",
		"/a//b":          "/a/b",
		"/coins/1?x=1#y": "/coins/1",
	}
	for in, want := range tests {
		if got := CleanPath(in); got != want {
			t.Errorf("CleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
