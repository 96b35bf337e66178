package function

import (
	"testing"

	"github.com/brody715/lumidb/pkg/value"
)

func TestFixedSignatureCheck(t *testing.T) {
	sig := Fixed(value.TypeString, value.TypeFloat)
	if err := sig.Check([]value.Value{value.FromString("a"), value.FromFloat(1)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := sig.Check([]value.Value{value.FromString("a")}); err == nil {
		t.Error("expected arity error")
	}
	if err := sig.Check([]value.Value{value.FromFloat(1), value.FromFloat(1)}); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestVariadicSignatureCheck(t *testing.T) {
	sig := Variadic(value.TypeString)
	if err := sig.Check(nil); err != nil {
		t.Errorf("zero args should be allowed: %v", err)
	}
	if err := sig.Check([]value.Value{value.FromString("a"), value.FromString("b")}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := sig.Check([]value.Value{value.FromFloat(1)}); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestFunctionValidateRequiresRootOrLeaf(t *testing.T) {
	f := &Function{Name: "nope"}
	if err := f.Validate(); err == nil {
		t.Error("expected validation error when neither can_root nor can_leaf is set")
	}
}

func TestFunctionValidateRequiresCallbacks(t *testing.T) {
	f := &Function{Name: "half", CanRoot: true}
	if err := f.Validate(); err == nil {
		t.Error("expected validation error for can_root without execute_root/finalize_root")
	}
}
