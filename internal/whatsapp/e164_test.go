package whatsapp

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"447700900000", "+447700900000"},
		{"+447700900000", "+447700900000"},
		{" 447700900000 ", "+447700900000"},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeE164Idempotent(t *testing.T) {
	once := NormalizeE164("447700900000")
	twice := NormalizeE164(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q != %q", once, twice)
	}
}
