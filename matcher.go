package filters

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Predicate function names bound into every matcher registry.
const (
	FuncContainsText = "contains_text"
	FuncNumberEquals = "number_equals"
	FuncValueEquals  = "value_equals"
	FuncDatePrefix   = "date_prefix"
	FuncDateFrom     = "date_from"
	FuncDateUntil    = "date_until"
	FuncHasOption    = "has_option"
)

// MatcherOption configures a Matcher.
type MatcherOption func(*matcherConfig)

type matcherConfig struct {
	engine    Engine
	cache     ProgramCache
	registry  *FunctionRegistry
	evaluator Evaluator
	logger    Logger
}

// WithEngine selects the evaluator backend. Defaults to EngineExpr.
func WithEngine(engine Engine) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.engine = engine
	}
}

// WithProgramCache reuses compiled programs across predicates.
func WithProgramCache(cache ProgramCache) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes extra functions to predicate expressions.
func WithFunctionRegistry(registry *FunctionRegistry) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.registry = registry
	}
}

// WithEvaluator supplies a custom evaluator, bypassing engine selection.
func WithEvaluator(evaluator Evaluator) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.evaluator = evaluator
	}
}

// WithMatcherLogger logs compile and evaluation failures.
func WithMatcherLogger(logger Logger) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.logger = logger
	}
}

// Matcher compiles filter sets into predicates over records.
type Matcher struct {
	schema    Schema
	engine    Engine
	evaluator Evaluator
	logger    Logger
}

// NewMatcher builds a Matcher for schema.
func NewMatcher(schema Schema, opts ...MatcherOption) (*Matcher, error) {
	cfg := matcherConfig{engine: EngineExpr}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}

	registry := builtins.Clone()
	if cfg.registry != nil {
		if err := registry.merge(cfg.registry); err != nil {
			return nil, err
		}
	}

	evaluator := cfg.evaluator
	if evaluator == nil {
		switch cfg.engine {
		case EngineExpr, "":
			cfg.engine = EngineExpr
			evaluator = NewExprEvaluator(ExprWithProgramCache(cfg.cache), ExprWithFunctionRegistry(registry))
		case EngineCEL:
			evaluator = NewCELEvaluator(CELWithProgramCache(cfg.cache), CELWithFunctionRegistry(registry))
		case EngineJS:
			evaluator = NewJSEvaluator(JSWithProgramCache(cfg.cache), JSWithFunctionRegistry(registry))
		}
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: %q", ErrEngineUnavailable, cfg.engine)
	}

	return &Matcher{
		schema:    schema,
		engine:    cfg.engine,
		evaluator: evaluator,
		logger:    cfg.logger,
	}, nil
}

// Engine returns the configured backend name.
func (m *Matcher) Engine() Engine {
	return m.engine
}

// Expression renders the predicate for set. Every active tracked key adds
// one clause; an inactive set renders "true".
func (m *Matcher) Expression(set FilterSet) string {
	var clauses []string
	for _, field := range m.schema.Fields() {
		name := strconv.Quote(field.Name)
		switch field.Kind {
		case KindDateRange:
			if start := RangeStartKey(field.Name); set[start] != "" {
				clauses = append(clauses, clause(FuncDateFrom, name, start))
			}
			if end := RangeEndKey(field.Name); set[end] != "" {
				clauses = append(clauses, clause(FuncDateUntil, name, end))
			}
			continue
		}
		if set[field.Name] == "" {
			continue
		}
		clauses = append(clauses, clause(kindFunction(field.Kind), name, field.Name))
	}
	if len(clauses) == 0 {
		return "true"
	}
	return strings.Join(clauses, " && ")
}

func clause(fn, quotedField, key string) string {
	return fmt.Sprintf("%s(record, %s, filters[%s])", fn, quotedField, strconv.Quote(key))
}

func kindFunction(kind FieldKind) string {
	switch kind {
	case KindText:
		return FuncContainsText
	case KindNumber:
		return FuncNumberEquals
	case KindDate:
		return FuncDatePrefix
	case KindMultiSelect:
		return FuncHasOption
	default:
		return FuncValueEquals
	}
}

// Predicate is a compiled filter set.
type Predicate struct {
	filters    FilterSet
	expression string
	rule       CompiledRule
	engine     Engine
	logger     Logger
}

// Compile renders and compiles the predicate for set.
func (m *Matcher) Compile(set FilterSet) (*Predicate, error) {
	set = m.schema.Restrict(set)
	expression := m.Expression(set)
	rule, err := m.evaluator.Compile(expression)
	if err != nil {
		m.logger.Log(LogEvent{Op: "match.compile", Source: string(m.engine), Count: set.Count(), Err: err})
		return nil, err
	}
	return &Predicate{
		filters:    set,
		expression: expression,
		rule:       rule,
		engine:     m.engine,
		logger:     m.logger,
	}, nil
}

// Expression returns the compiled source.
func (p *Predicate) Expression() string {
	return p.expression
}

// Match reports whether record satisfies every active filter.
func (p *Predicate) Match(record map[string]any) (bool, error) {
	result, err := p.rule.Evaluate(MatchContext{Record: record, Filters: p.filters})
	if err != nil {
		p.logger.Log(LogEvent{Op: "match.evaluate", Source: string(p.engine), Err: err})
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		err := wrapEvaluationError(string(p.engine), p.expression, fmt.Errorf("predicate returned %T, want bool", result))
		p.logger.Log(LogEvent{Op: "match.evaluate", Source: string(p.engine), Err: err})
		return false, err
	}
	return matched, nil
}

// Filter returns the records matching every active filter, in order.
func (p *Predicate) Filter(records []map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		ok, err := p.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, record)
		}
	}
	return out, nil
}

// Match compiles set and tests one record.
func (m *Matcher) Match(set FilterSet, record map[string]any) (bool, error) {
	predicate, err := m.Compile(set)
	if err != nil {
		return false, err
	}
	return predicate.Match(record)
}

// Filter compiles set once and returns the matching records.
func (m *Matcher) Filter(set FilterSet, records []map[string]any) ([]map[string]any, error) {
	predicate, err := m.Compile(set)
	if err != nil {
		return nil, err
	}
	return predicate.Filter(records)
}

var builtins = builtinFunctions()

func builtinFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register(FuncContainsText, fieldPredicate(func(have any, want string) bool {
		return strings.Contains(strings.ToLower(stringify(have)), strings.ToLower(want))
	}))
	_ = registry.Register(FuncNumberEquals, fieldPredicate(func(have any, want string) bool {
		got, errGot := strconv.ParseFloat(strings.TrimSpace(stringify(have)), 64)
		expected, errWant := strconv.ParseFloat(strings.TrimSpace(want), 64)
		if errGot != nil || errWant != nil {
			return stringify(have) == want
		}
		return got == expected
	}))
	_ = registry.Register(FuncValueEquals, fieldPredicate(func(have any, want string) bool {
		return stringify(have) == want
	}))
	_ = registry.Register(FuncDatePrefix, fieldPredicate(func(have any, want string) bool {
		return strings.HasPrefix(dateString(have), want)
	}))
	_ = registry.Register(FuncDateFrom, fieldPredicate(func(have any, want string) bool {
		got, ok := parseDate(dateString(have))
		start, okStart := parseDate(want)
		return ok && okStart && !got.Before(start)
	}))
	_ = registry.Register(FuncDateUntil, fieldPredicate(func(have any, want string) bool {
		got, ok := parseDate(dateString(have))
		end, okEnd := parseDate(want)
		return ok && okEnd && got.Before(end.AddDate(0, 0, 1))
	}))
	_ = registry.Register(FuncHasOption, fieldPredicate(func(have any, want string) bool {
		selected := SplitMulti(want)
		for _, value := range listify(have) {
			for _, option := range selected {
				if value == option {
					return true
				}
			}
		}
		return false
	}))
	return registry
}

// fieldPredicate adapts test into a Function called as fn(record, field, want).
// Records without the field never match.
func fieldPredicate(test func(have any, want string) bool) Function {
	return func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("filters: predicate expects (record, field, value), got %d arguments", len(args))
		}
		field, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("filters: predicate field must be a string, got %T", args[1])
		}
		have, found := lookup(args[0], field)
		if !found || have == nil {
			return false, nil
		}
		return test(have, stringify(args[2])), nil
	}
}

func lookup(record any, field string) (any, bool) {
	switch typed := record.(type) {
	case map[string]any:
		value, ok := typed[field]
		return value, ok
	case map[string]string:
		value, ok := typed[field]
		return value, ok
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(record)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	value := rv.MapIndex(reflect.ValueOf(field).Convert(rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}
	return value.Interface(), true
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func listify(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case string:
		return SplitMulti(typed)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, stringify(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{stringify(value)}
}

func dateString(value any) string {
	if t, ok := value.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return stringify(value)
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
