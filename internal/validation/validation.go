// Package validation evaluates declarative rule sets against submitted
// request payloads. Rule sets are written as data (field name plus a list
// of named rules) and compiled once at startup; compilation resolves every
// rule name through a registry of predicate builders, so a misspelled rule
// is a configuration error at boot rather than a failure during a request.
//
// Evaluation is exhaustive: every rule of every field runs and all failing
// rules append their message to that field's error list, in rule order.
// A field that is absent from the payload passes every rule except
// "required".
package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Fields is a decoded JSON request body. Values keep the types produced by
// encoding/json: string, float64, bool, nil, nested maps and slices.
type Fields map[string]any

// Errors maps a field name to the messages of its failed rules.
type Errors map[string][]string

// Predicate checks a single compiled rule against the payload. It returns
// the user-facing message for a failed rule, "" for a passing one. A
// non-nil error means the check itself could not run (e.g. the database
// was unreachable during a uniqueness probe) and must surface as a server
// error, never as a validation message.
type Predicate func(ctx context.Context, fields Fields) (string, error)

// TakenFn reports whether a value is already persisted for the column a
// unique rule guards. Registered per rule at configuration time; rules
// never resolve tables or columns from strings.
type TakenFn func(ctx context.Context, value string) (bool, error)

// UniqueArg parameterizes the "unique" rule: the column name used in the
// error message and the repository callback that probes for the value.
type UniqueArg struct {
	Column string
	Taken  TakenFn
}

// Spec names a rule and carries its argument. Arguments are typed per
// rule: int for minimum/maximum, string for same, UniqueArg for unique,
// nil for the rest.
type Spec struct {
	Rule string
	Arg  any
}

// FieldSpec lists the rules of one field, in evaluation order.
type FieldSpec struct {
	Field string
	Specs []Spec
}

// builder turns a (field, argument) pair into a bound predicate. Builders
// reject mistyped arguments at compile time.
type builder func(field string, arg any) (Predicate, error)

// builders is the rule registry. Adding a rule means adding an entry here.
var builders = map[string]builder{
	"required": buildRequired,
	"string":   buildString,
	"minimum":  buildMinimum,
	"maximum":  buildMaximum,
	"email":    buildEmail,
	"same":     buildSame,
	"unique":   buildUnique,
}

type compiledField struct {
	field  string
	checks []Predicate
}

// RuleSet is a compiled, ready-to-evaluate rule set.
type RuleSet struct {
	fields []compiledField
}

// Compile resolves every rule name of every field through the registry.
// Unknown rule names and mistyped arguments are returned as errors.
func Compile(specs []FieldSpec) (RuleSet, error) {
	rs := RuleSet{fields: make([]compiledField, 0, len(specs))}
	for _, fs := range specs {
		cf := compiledField{field: fs.Field, checks: make([]Predicate, 0, len(fs.Specs))}
		for _, s := range fs.Specs {
			b, ok := builders[s.Rule]
			if !ok {
				return RuleSet{}, fmt.Errorf("validation: unknown rule %q for field %q", s.Rule, fs.Field)
			}
			check, err := b(fs.Field, s.Arg)
			if err != nil {
				return RuleSet{}, fmt.Errorf("validation: rule %q for field %q: %w", s.Rule, fs.Field, err)
			}
			cf.checks = append(cf.checks, check)
		}
		rs.fields = append(rs.fields, cf)
	}
	return rs, nil
}

// MustCompile is Compile for startup wiring; it panics on a bad rule set.
func MustCompile(specs []FieldSpec) RuleSet {
	rs, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Validate runs every rule of every field and aggregates all failures.
// It returns a nil map when the payload is accepted.
func (rs RuleSet) Validate(ctx context.Context, fields Fields) (Errors, error) {
	if fields == nil {
		fields = Fields{}
	}
	bag := Errors{}
	for _, cf := range rs.fields {
		for _, check := range cf.checks {
			msg, err := check(ctx, fields)
			if err != nil {
				return nil, err
			}
			if msg != "" {
				bag[cf.field] = append(bag[cf.field], msg)
			}
		}
	}
	if len(bag) == 0 {
		return nil, nil
	}
	return bag, nil
}

// ----- predicate builders -----

var (
	// symbolsOnly matches values with no letters or digits at all.
	symbolsOnly = regexp.MustCompile(`^[^a-zA-Z0-9]+$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[a-zA-Z]+$`)
)

func buildRequired(field string, _ any) (Predicate, error) {
	return func(_ context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok {
			return field + " is required", nil
		}
		if v == nil {
			return field + " should not be empty", nil
		}
		return "", nil
	}, nil
}

func buildString(field string, _ any) (Predicate, error) {
	return func(_ context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok || v == nil {
			return "", nil
		}
		s, isStr := v.(string)
		if !isStr || symbolsOnly.MatchString(s) {
			return field + " should be string", nil
		}
		return "", nil
	}, nil
}

func buildMinimum(field string, arg any) (Predicate, error) {
	n, err := intArg(arg)
	if err != nil {
		return nil, err
	}
	return func(_ context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok || v == nil {
			return "", nil
		}
		if len([]rune(Render(v))) < n {
			return field + " should not be less than " + strconv.Itoa(n) + " characters", nil
		}
		return "", nil
	}, nil
}

func buildMaximum(field string, arg any) (Predicate, error) {
	n, err := intArg(arg)
	if err != nil {
		return nil, err
	}
	return func(_ context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok || v == nil {
			return "", nil
		}
		if len([]rune(Render(v))) > n {
			return field + " should not be greater than " + strconv.Itoa(n) + " characters", nil
		}
		return "", nil
	}, nil
}

func buildEmail(field string, _ any) (Predicate, error) {
	return func(_ context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok {
			return "", nil
		}
		s, isStr := v.(string)
		if !isStr || !emailRe.MatchString(s) {
			return "Invalid email address", nil
		}
		return "", nil
	}, nil
}

func buildSame(field string, arg any) (Predicate, error) {
	other, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("same: want string argument, got %T", arg)
	}
	return func(_ context.Context, fields Fields) (string, error) {
		v, hasField := fields[field]
		o, hasOther := fields[other]
		if !hasField || !hasOther {
			return "", nil
		}
		if Render(v) != Render(o) {
			return other + " don't match", nil
		}
		return "", nil
	}, nil
}

func buildUnique(field string, arg any) (Predicate, error) {
	u, ok := arg.(UniqueArg)
	if !ok {
		return nil, fmt.Errorf("unique: want UniqueArg argument, got %T", arg)
	}
	if u.Taken == nil {
		return nil, fmt.Errorf("unique: missing Taken callback for column %q", u.Column)
	}
	return func(ctx context.Context, fields Fields) (string, error) {
		v, ok := fields[field]
		if !ok || v == nil {
			return "", nil
		}
		taken, err := u.Taken(ctx, Render(v))
		if err != nil {
			return "", err
		}
		if taken {
			return u.Column + " has been taken", nil
		}
		return "", nil
	}, nil
}

// intArg accepts int (rule tables) and float64 (anything that round-
// tripped through JSON).
func intArg(arg any) (int, error) {
	switch n := arg.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("want int argument, got %T", arg)
}

// Render converts a payload value to the string form the rules measure.
// JSON numbers arrive as float64 and are formatted without an exponent.
// Handlers extract accepted values through the same rendering, so the
// string that was validated is exactly the string that gets stored.
func Render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}
