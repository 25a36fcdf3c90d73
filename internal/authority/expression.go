package authority

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
)

// Expression verifies principals for which a CEL expression evaluates to true.
// The expression sees a single string variable, principal, for example:
//
//	principal.startsWith("SP") && principal != "SP000000000000000000002Q6VF78"
type Expression struct {
	source  string
	program cel.Program
	logger  *slog.Logger
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string, logger *slog.Logger) (*Expression, error) {
	if logger == nil {
		logger = slog.Default()
	}

	env, err := cel.NewEnv(cel.Variable("principal", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("cel compile: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("cel compile: expression must return bool, got %s", ast.OutputType())
	}

	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("cel program: %w", err)
	}

	return &Expression{source: expr, program: prog, logger: logger}, nil
}

// String returns the source expression.
func (e *Expression) String() string {
	return e.source
}

// IsVerifiedAuthority evaluates the expression. Evaluation errors verify nobody.
func (e *Expression) IsVerifiedAuthority(_ context.Context, p models.Principal) bool {
	out, _, err := e.program.Eval(map[string]any{"principal": p.String()})
	if err != nil {
		e.logger.Warn("Authority expression failed", "principal", p, "error", err)
		return false
	}
	if out.Type() != types.BoolType {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
