package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

var fastParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify(t *testing.T) {
	h, err := Hash(fastParams, "s3cret-melon")
	if err != nil {
		t.Fatalf("Hash err: %v", err)
	}
	if !strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", h)
	}
	if !Verify("s3cret-melon", h) {
		t.Fatal("expected verify ok")
	}
	if Verify("s3cret-melon!", h) {
		t.Fatal("expected verify to fail for wrong password")
	}
}

func TestHashEmpty(t *testing.T) {
	if _, err := Hash(fastParams, ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyBcryptLegacy(t *testing.T) {
	b, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt err: %v", err)
	}
	if !Verify("legacy-pass", string(b)) {
		t.Fatal("expected bcrypt verify ok")
	}
	if Verify("other", string(b)) {
		t.Fatal("expected bcrypt verify to fail")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, h := range []string{"", "plain", "$argon2id$v=19$m=1", "$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA", "$argon2id$v=19$m=1,t=1,p=1$!!$AAAA"} {
		if Verify("x", h) {
			t.Fatalf("expected false for %q", h)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		pwd, user string
		reason    string
	}{
		{"short1", "", "too_short"},
		{"1234567890123", "", "entirely_numeric"},
		{"password1", "", "too_common"},
		{"alice1234", "alice", "too_similar_to_username"},
	}
	for _, c := range cases {
		ok, reasons := p.Validate(c.pwd, c.user)
		if ok {
			t.Fatalf("expected %q to be rejected", c.pwd)
		}
		found := false
		for _, r := range reasons {
			if r == c.reason {
				found = true
			}
		}
		if !found {
			t.Fatalf("pwd %q: expected reason %s, got %v", c.pwd, c.reason, reasons)
		}
	}

	if ok, reasons := p.Validate("violet-tambourine-42", "alice"); !ok {
		t.Fatalf("expected valid password, got %v", reasons)
	}
}

func TestBlacklistMerge(t *testing.T) {
	bl := CommonPasswords()
	extra := &Blacklist{data: map[string]struct{}{}}
	extra.add("# comment")
	extra.add("  MelonMelon ")
	bl.Merge(extra)

	if !bl.Contains("melonmelon") {
		t.Fatal("expected merged entry")
	}
	if bl.Contains("# comment") {
		t.Fatal("comments must be ignored")
	}
	var nilBL *Blacklist
	if nilBL.Contains("password") {
		t.Fatal("nil blacklist contains nothing")
	}
}
