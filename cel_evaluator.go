package filters

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions are callable with one to three dynamic arguments.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

const celMaxArity = 3

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx MatchContext, expression string) (any, error) {
	if expression == "" {
		return nil, errEmptyExpression("cel")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx.withDefaults())
}

func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, errEmptyExpression("cel")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celCompiledRule{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(programCacheKey(EngineCEL, e.registry, expression)); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(programCacheKey(EngineCEL, e.registry, expression), bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("record", celgo.DynType),
		celgo.Variable("filters", celgo.MapType(celgo.StringType, celgo.StringType)),
		celgo.Variable("now", celgo.TimestampType),
		ext.Strings(),
	}
	for _, name := range e.registry.Names() {
		overloads := make([]celgo.FunctionOpt, 0, celMaxArity)
		for arity := 1; arity <= celMaxArity; arity++ {
			args := make([]*celgo.Type, arity)
			for i := range args {
				args[i] = celgo.DynType
			}
			overloads = append(overloads, celgo.Overload(
				fmt.Sprintf("%s_dyn_%d", name, arity),
				args,
				celgo.DynType,
				celgo.FunctionBinding(e.binding(name)),
			))
		}
		opts = append(opts, celgo.Function(name, overloads...))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) run(program *celProgram, expression string, ctx MatchContext) (any, error) {
	out, _, err := program.program.Eval(ctx.bindings())
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) binding(name string) func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		args := make([]any, 0, len(values))
		for _, val := range values {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	program    *celProgram
	expression string
}

func (r *celCompiledRule) Evaluate(ctx MatchContext) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx.withDefaults())
}
