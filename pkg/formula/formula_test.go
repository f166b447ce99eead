package formula

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Fields(t *testing.T) {
	expr, err := Parse("round(qty * rate, 2) + if(customer.vip, discount, 0)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"customer.vip", "discount", "qty", "rate"}
	if diff := cmp.Diff(want, expr.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestEval(t *testing.T) {
	values := map[string]any{
		"qty":      3,
		"rate":     2.5,
		"name":     "Acme",
		"active":   true,
		"customer": map[string]any{"tier": "gold"},
	}

	cases := []struct {
		expr string
		want any
	}{
		{"qty * rate", 7.5},
		{"-qty + 10", 7.0},
		{"(qty + 1) * 2", 8.0},
		{"10 % 4", 2.0},
		{"name + ' Ltd'", "Acme Ltd"},
		{"concat(name, \"-\", qty)", "Acme-3"},
		{"qty >= 3 && active", true},
		{"qty < 3 || !active", false},
		{"customer.tier == 'gold'", true},
		{"missing == null", true},
		{"max(1, qty, 2)", 3.0},
		{"min(qty, rate)", 2.5},
		{"abs(-4)", 4.0},
		{"round(3.14159, 2)", 3.14},
		{"round(2.5)", 3.0},
		{"if(qty > 5, 'many', 'few')", "few"},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			expr, err := Parse(tc.expr)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := expr.Eval(values)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []string{
		"qty *",
		"(qty + 1",
		"qty = 1",
		"qty & rate",
		"'open",
		"unknown(1)",
		"abs(1, 2)",
		"qty rate",
		"1.2.3",
		"qty # 2",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			err := Check(src)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	if err := Check("   "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	expr, err := Parse("total / count")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := expr.Eval(map[string]any{"total": 10, "count": 0}); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}
