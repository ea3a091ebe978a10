package chain

import "testing"

func TestSanitizeID(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "alice", "alice", false},
		{"email-like replaces at", "alice@example.com", "alice_example.com", false},
		{"empty rejected", "", "", true},
		{"path separator rejected", "alice/bob", "", true},
		{"dotdot rejected", "../etc/passwd", "", true},
		{"control char rejected", "alice\x00", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeID(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for input %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("sanitizeID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
