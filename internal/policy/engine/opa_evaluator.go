package engine

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"
)

const (
	policyPackage = "numis.route_access"
	protectedRule = "data." + policyPackage + ".protected"
)

// DefaultRoutePolicy protects /admin and everything below it except the login page.
const DefaultRoutePolicy = `package numis.route_access

default protected := false

protected if {
	input.path == "/admin"
}

protected if {
	startswith(input.path, "/admin/")
	not public
}

public if {
	input.path == "/admin/login"
}
`

// OPAEvaluator answers RouteAccess with a Rego policy. The query is prepared once.
type OPAEvaluator struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// NewOPAEvaluator compiles DefaultRoutePolicy. logger may be nil.
func NewOPAEvaluator(ctx context.Context, logger *zap.Logger) (*OPAEvaluator, error) {
	return NewOPAEvaluatorWithPolicy(ctx, DefaultRoutePolicy, logger)
}

// NewOPAEvaluatorWithPolicy compiles module, which must define data.numis.route_access.protected.
func NewOPAEvaluatorWithPolicy(ctx context.Context, module string, logger *zap.Logger) (*OPAEvaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	q, err := rego.New(
		rego.Query(protectedRule),
		rego.Module("route_access.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile route policy: %w", err)
	}
	return &OPAEvaluator{query: q, logger: logger}, nil
}

// HealthCheck evaluates the policy against the login route and the dashboard.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	login, err := e.Protected(ctx, LoginPath)
	if err != nil {
		return err
	}
	admin, err := e.Protected(ctx, "/admin/dashboard")
	if err != nil {
		return err
	}
	if login || !admin {
		return errors.New("route policy: unexpected decision for login or dashboard")
	}
	return nil
}

// Protected evaluates the policy for p. Evaluation errors are returned with true.
func (e *OPAEvaluator) Protected(ctx context.Context, p string) (bool, error) {
	clean := CleanPath(p)
	input := map[string]interface{}{
		"path":     clean,
		"segments": segments(clean),
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		e.logger.Warn("policy: route evaluation failed", zap.String("path", clean), zap.Error(err))
		return true, fmt.Errorf("eval route policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return true, errors.New("route policy returned no result")
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return true, fmt.Errorf("route policy returned %T, want bool", rs[0].Expressions[0].Value)
	}
	return v, nil
}

// CleanPath strips query and fragment, resolves dot segments and drops a trailing slash.
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func segments(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "/")
}
