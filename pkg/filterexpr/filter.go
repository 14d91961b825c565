// Package filterexpr evaluates CEL filter expressions and order_by clauses against in-memory
// records described by a Schema.
package filterexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Msg wraps request DTOs that expose filter and order_by raw inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind describes the CEL type a field is exposed as.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
	KindBool      ValueKind = "bool"
)

// Field exposes one property of T to filter expressions.
// Value must return string, float64, time.Time or bool matching Kind.
type Field[T any] struct {
	Kind  ValueKind
	Value func(item T) any
}

// Schema whitelists the fields and order keys a resource accepts.
type Schema[T any] struct {
	Fields map[string]Field[T]
	Order  OrderSchema[T]
}

// Predicate is a compiled filter.
type Predicate[T any] struct {
	schema Schema[T]
	prg    cel.Program
}

// Compile parses and type-checks filter. An empty filter matches everything.
func (s Schema[T]) Compile(filter string) (*Predicate[T], error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return &Predicate[T]{schema: s}, nil
	}
	if len(s.Fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := s.env()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build filter program: %w", err)
	}
	return &Predicate[T]{schema: s, prg: prg}, nil
}

func (s Schema[T]) env() (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(s.Fields)+1)
	for name, field := range s.Fields {
		celType, err := celTypeForKind(field.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	case KindBool:
		return cel.BoolType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// Match evaluates the predicate against item.
func (p *Predicate[T]) Match(item T) (bool, error) {
	if p == nil || p.prg == nil {
		return true, nil
	}
	vars := make(map[string]any, len(p.schema.Fields))
	for name, field := range p.schema.Fields {
		vars[name] = field.Value(item)
	}
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter produced %T, want bool", out.Value())
	}
	return matched, nil
}

// Apply filters and orders items according to msg. The input slice is not modified.
func Apply[T any](items []T, msg Msg, schema Schema[T]) ([]T, error) {
	pred, err := schema.Compile(msg.GetFilter())
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	order, err := schema.Order.Parse(msg.GetOrderBy())
	if err != nil {
		return nil, fmt.Errorf("order_by: %w", err)
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := pred.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, item)
		}
	}
	schema.Order.Sort(result, order)
	return result, nil
}
