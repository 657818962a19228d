package filters

import (
	"fmt"
	"strings"
	"time"
)

// Engine names a predicate evaluator backend.
type Engine string

const (
	EngineExpr Engine = "expr"
	EngineCEL  Engine = "cel"
	EngineJS   Engine = "js"
)

// ParseEngine maps a configuration string to an Engine. Empty selects expr.
func ParseEngine(value string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(value))) {
	case "", EngineExpr:
		return EngineExpr, nil
	case EngineCEL:
		return EngineCEL, nil
	case EngineJS:
		return EngineJS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrEngineUnavailable, value)
	}
}

// MatchContext is the environment a predicate expression runs against.
// Expressions see record, filters and now.
type MatchContext struct {
	Record  map[string]any
	Filters FilterSet
	Now     *time.Time
}

func (ctx MatchContext) withDefaults() MatchContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Record == nil {
		ctx.Record = map[string]any{}
	}
	if ctx.Filters == nil {
		ctx.Filters = FilterSet{}
	}
	return ctx
}

func (ctx MatchContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

func (ctx MatchContext) bindings() map[string]any {
	return map[string]any{
		"record":  ctx.Record,
		"filters": map[string]string(ctx.Filters),
		"now":     ctx.timestamp(),
	}
}

// Evaluator runs predicate expressions.
type Evaluator interface {
	Evaluate(ctx MatchContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx MatchContext) (any, error)
}

func errEmptyExpression(engine string) error {
	return wrapEvaluationError(engine, "", fmt.Errorf("expression must not be empty"))
}
