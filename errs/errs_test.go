package errs

import "testing"

func TestCodeSeparation(t *testing.T) {
	v := New(Validation, 1, "bad input")
	n := New(Numeric, 1, "singular matrix")
	l := New(Liveness, 1, "stale handle")
	c := New(Configuration, 1, "missing transform")

	if v.Code >= n.Code || n.Code >= l.Code || l.Code >= c.Code {
		t.Fatalf("expected strictly increasing code ranges, got %d %d %d %d", v.Code, n.Code, l.Code, c.Code)
	}
	if n.Code-v.Code < 1000 || l.Code-n.Code < 1000 || c.Code-l.Code < 1000 {
		t.Fatalf("expected at least 1000-code separation between kinds")
	}
}

func TestIs(t *testing.T) {
	err := New(Liveness, 3, "stale entity %d", 42)
	if !Is(err, Liveness) {
		t.Fatal("expected Is(err, Liveness) to be true")
	}
	if Is(err, Numeric) {
		t.Fatal("expected Is(err, Numeric) to be false")
	}
}

func TestErrorString(t *testing.T) {
	err := New(Validation, 5, "quaternion norm %.3f out of range", 1.2)
	s := err.Error()
	if s == "" {
		t.Fatal("expected non-empty error string")
	}
}
