package vars

import "testing"

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true": true,
		"Y":    true,
		" on ": true,
		"1":    true,
		"no":   false,
		"0":    false,
		"":     false,
		"what": false,
	} {
		if got := StrToBool(str); got != expected {
			t.Fatalf("%q: got %v", str, got)
		}
	}
}

func TestFirstNonZero(t *testing.T) {
	if got := FirstNonZero("", "a", "b"); got != "a" {
		t.Fatalf("got %v", got)
	}
	if got := FirstNonZero(0, 0); got != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestDerefOrZero(t *testing.T) {
	if got := DerefOrZero[int](nil); got != 0 {
		t.Fatalf("got %v", got)
	}
	n := 42
	if got := DerefOrZero(&n); got != 42 {
		t.Fatalf("got %v", got)
	}
}
