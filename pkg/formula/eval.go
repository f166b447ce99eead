package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDivisionByZero is returned by / and % with a zero divisor.
var ErrDivisionByZero = errors.New("formula: division by zero")

type node interface {
	eval(values map[string]any) (any, error)
	collect(fields map[string]struct{})
}

type literalNode struct {
	value any
}

func numberLiteral(raw string) literalNode {
	f, _ := strconv.ParseFloat(raw, 64)
	return literalNode{value: f}
}

func (n literalNode) eval(map[string]any) (any, error) { return n.value, nil }
func (literalNode) collect(map[string]struct{})        {}

type refNode struct {
	name string
}

func (n refNode) eval(values map[string]any) (any, error) {
	value, _ := lookup(values, n.name)
	return normalize(value), nil
}

func (n refNode) collect(fields map[string]struct{}) { fields[n.name] = struct{}{} }

type unaryNode struct {
	op    tokenKind
	inner node
}

func (n unaryNode) eval(values map[string]any) (any, error) {
	value, err := n.inner.eval(values)
	if err != nil {
		return nil, err
	}
	if n.op == tokenNot {
		return !truthy(value), nil
	}
	num, ok := toNumber(value)
	if !ok {
		return nil, fmt.Errorf("formula: cannot negate %s", describe(value))
	}
	return -num, nil
}

func (n unaryNode) collect(fields map[string]struct{}) { n.inner.collect(fields) }

type arithNode struct {
	op          tokenKind
	left, right node
}

func (n arithNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}

	if n.op == tokenPlus {
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			return toString(left) + toString(right), nil
		}
	}

	l, lok := toNumber(left)
	r, rok := toNumber(right)
	if !lok || !rok {
		return nil, fmt.Errorf("formula: arithmetic on %s and %s", describe(left), describe(right))
	}
	switch n.op {
	case tokenPlus:
		return l + r, nil
	case tokenMinus:
		return l - r, nil
	case tokenStar:
		return l * r, nil
	case tokenSlash:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return l / r, nil
	case tokenPercent:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return math.Mod(l, r), nil
	}
	return nil, fmt.Errorf("formula: unsupported operator")
}

func (n arithNode) collect(fields map[string]struct{}) {
	n.left.collect(fields)
	n.right.collect(fields)
}

type compareNode struct {
	op          tokenKind
	left, right node
}

func (n compareNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case tokenEq:
		return equal(left, right), nil
	case tokenNeq:
		return !equal(left, right), nil
	}

	var cmp int
	l, lok := toNumber(left)
	r, rok := toNumber(right)
	switch {
	case lok && rok:
		cmp = compareFloat(l, r)
	default:
		cmp = strings.Compare(toString(left), toString(right))
	}
	switch n.op {
	case tokenLt:
		return cmp < 0, nil
	case tokenLte:
		return cmp <= 0, nil
	case tokenGt:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func (n compareNode) collect(fields map[string]struct{}) {
	n.left.collect(fields)
	n.right.collect(fields)
}

type logicalNode struct {
	op          tokenKind
	left, right node
}

func (n logicalNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	if n.op == tokenOr && truthy(left) {
		return true, nil
	}
	if n.op == tokenAnd && !truthy(left) {
		return false, nil
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}
	return truthy(right), nil
}

func (n logicalNode) collect(fields map[string]struct{}) {
	n.left.collect(fields)
	n.right.collect(fields)
}

type builtin struct {
	minArgs int
	maxArgs int // -1 for variadic
	call    func(args []any) (any, error)
}

type callNode struct {
	name string
	fn   builtin
	args []node
}

func (n callNode) eval(values map[string]any) (any, error) {
	if n.name == "if" {
		cond, err := n.args[0].eval(values)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return n.args[1].eval(values)
		}
		return n.args[2].eval(values)
	}

	args := make([]any, len(n.args))
	for i, arg := range n.args {
		value, err := arg.eval(values)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}
	return n.fn.call(args)
}

func (n callNode) collect(fields map[string]struct{}) {
	for _, arg := range n.args {
		arg.collect(fields)
	}
}

var builtins = map[string]builtin{
	"abs": {minArgs: 1, maxArgs: 1, call: func(args []any) (any, error) {
		num, err := numberArg("abs", args[0])
		if err != nil {
			return nil, err
		}
		return math.Abs(num), nil
	}},
	"round": {minArgs: 1, maxArgs: 2, call: func(args []any) (any, error) {
		num, err := numberArg("round", args[0])
		if err != nil {
			return nil, err
		}
		places := 0.0
		if len(args) == 2 {
			if places, err = numberArg("round", args[1]); err != nil {
				return nil, err
			}
		}
		scale := math.Pow(10, math.Trunc(places))
		return math.Round(num*scale) / scale, nil
	}},
	"min": {minArgs: 1, maxArgs: -1, call: func(args []any) (any, error) {
		return fold("min", args, math.Min)
	}},
	"max": {minArgs: 1, maxArgs: -1, call: func(args []any) (any, error) {
		return fold("max", args, math.Max)
	}},
	"concat": {minArgs: 0, maxArgs: -1, call: func(args []any) (any, error) {
		var b strings.Builder
		for _, arg := range args {
			b.WriteString(toString(arg))
		}
		return b.String(), nil
	}},
	"if": {minArgs: 3, maxArgs: 3},
}

func fold(name string, args []any, pick func(a, b float64) float64) (any, error) {
	out, err := numberArg(name, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		num, err := numberArg(name, arg)
		if err != nil {
			return nil, err
		}
		out = pick(out, num)
	}
	return out, nil
}

func numberArg(name string, value any) (float64, error) {
	num, ok := toNumber(value)
	if !ok {
		return 0, fmt.Errorf("formula: %s expects a number, got %s", name, describe(value))
	}
	return num, nil
}

func lookup(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := m[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func toNumber(value any) (float64, bool) {
	switch v := normalize(value).(type) {
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := normalize(value).(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func equal(left, right any) bool {
	left, right = normalize(left), normalize(right)
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if l, ok := left.(float64); ok {
		if r, ok := toNumber(right); ok {
			return l == r
		}
	}
	if r, ok := right.(float64); ok {
		if l, ok := toNumber(left); ok {
			return l == r
		}
	}
	return toString(left) == toString(right)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func describe(value any) string {
	switch normalize(value).(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}
