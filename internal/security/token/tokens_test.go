package tokens

import "testing"

func TestGenerateKey(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		k, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey err: %v", err)
		}
		if len(k) != 40 {
			t.Fatalf("expected 40 chars, got %d (%s)", len(k), k)
		}
		if !ValidKey(k) {
			t.Fatalf("generated key not valid: %s", k)
		}
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key: %s", k)
		}
		seen[k] = struct{}{}
	}
}

func TestValidKey(t *testing.T) {
	invalid := []string{
		"",
		"abc",
		"9944b09199c62bcf9418ad846dd0e4bbdfc6ee4",   // 39
		"9944b09199c62bcf9418ad846dd0e4bbdfc6ee4bx", // 41
		"9944B09199C62BCF9418AD846DD0E4BBDFC6EE4B",  // mayúsculas
		"zz44b09199c62bcf9418ad846dd0e4bbdfc6ee4b",
	}
	for _, k := range invalid {
		if ValidKey(k) {
			t.Fatalf("expected invalid: %q", k)
		}
	}
	if !ValidKey("9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b") {
		t.Fatal("expected valid key")
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix("9944b09199c62bcf"); got != "9944b0…" {
		t.Fatalf("unexpected prefix %q", got)
	}
	if got := Prefix("abc"); got != "abc" {
		t.Fatalf("unexpected prefix %q", got)
	}
}
