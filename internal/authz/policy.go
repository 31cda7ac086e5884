// Package authz decides which roles may perform which API actions. The rules
// live in an embedded Rego policy evaluated in-process by OPA, so the role
// matrix can be read and audited in one place.
package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"surgsim-platform/backend/internal/user/domain"
)

// Action names one protected API operation.
type Action string

const (
	// ActionReadTrajectory covers reading a recorded surgery trajectory.
	ActionReadTrajectory Action = "trajectory:read"
	// ActionWriteAnalysis covers attaching analysis results to a surgery.
	ActionWriteAnalysis Action = "analysis:write"
)

const policyQuery = "data.surgsim.authz.allow"

// Role policy: surgeons and the analysis engine may read trajectories;
// only the analysis engine may write analysis results.
const regoPolicy = `package surgsim.authz

default allow = false

allow if {
	input.action == "trajectory:read"
	input.role == "SURGEON"
}

allow if {
	input.action == "trajectory:read"
	input.role == "AI"
}

allow if {
	input.action == "analysis:write"
	input.role == "AI"
}
`

// Authorizer answers allow/deny questions for role and action pairs. The
// policy is compiled once at construction; evaluation is pure and concurrency
// safe.
type Authorizer struct {
	query rego.PreparedEvalQuery
}

// New compiles the embedded policy and prepares its query.
func New(ctx context.Context) (*Authorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": regoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare authz query: %w", err)
	}
	return &Authorizer{query: q}, nil
}

// Allowed reports whether role may perform action. Unknown roles and actions
// are denied by the policy's default.
func (a *Authorizer) Allowed(ctx context.Context, role domain.Role, action Action) (bool, error) {
	input := map[string]interface{}{
		"role":   string(role),
		"action": string(action),
	}
	rs, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval authz policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("authz query returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("authz query returned non-boolean result")
	}
	return allowed, nil
}
