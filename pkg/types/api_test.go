package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	e := &Error{Kind: ErrKindIO, Msg: "apply a -> b"}
	if got := e.Error(); got != "apply a -> b" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &Error{Kind: ErrKindIO, Msg: "apply a -> b", Err: errors.New("disk full")}
	if got := wrapped.Error(); got != "apply a -> b: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := &Error{Kind: ErrKindIO, Msg: "apply", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestKindOf(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain error should carry no kind")
	}

	k, ok := KindOf(ErrNotFound)
	if !ok || k != ErrKindNotFound {
		t.Errorf("KindOf(ErrNotFound) = %v, %v", k, ok)
	}

	// Kind survives fmt wrapping.
	wrapped := fmt.Errorf("commit: %w", &Error{Kind: ErrKindRestore, Msg: "restore x"})
	k, ok = KindOf(wrapped)
	if !ok || k != ErrKindRestore {
		t.Errorf("KindOf(wrapped) = %v, %v", k, ok)
	}
}

func TestOpKind_String(t *testing.T) {
	for kind, want := range map[OpKind]string{OpMove: "move", OpCopy: "copy", OpRemove: "remove", OpKind(9): "unknown"} {
		if got := kind.String(); got != want {
			t.Errorf("OpKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
