package policy

import (
	"strings"
	"testing"
)

func TestRedactPII(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []string
		changed bool
	}{
		{
			name:    "email",
			in:      "my doctor is jane.doe@clinic.example, is this dose safe?",
			want:    []string{"[REDACTED_EMAIL]"},
			changed: true,
		},
		{
			name:    "phone",
			in:      "call me back at +1 (555) 010-2030 about my results",
			want:    []string{"[REDACTED_PHONE]"},
			changed: true,
		},
		{
			name:    "card",
			in:      "I paid with 4111 1111 1111 1111, does insurance cover this?",
			want:    []string{"[REDACTED_CARD]"},
			changed: true,
		},
		{
			name:    "ssn",
			in:      "my record number is 123-45-6789",
			want:    []string{"[REDACTED_SSN]"},
			changed: true,
		},
		{
			name:    "clean question",
			in:      "what are the early symptoms of type 2 diabetes?",
			want:    nil,
			changed: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := RedactPII(tc.in)
			if changed != tc.changed {
				t.Fatalf("changed = %v, want %v (got %q)", changed, tc.changed, got)
			}
			if !tc.changed && got != tc.in {
				t.Fatalf("clean input was modified: %q", got)
			}
			for _, marker := range tc.want {
				if !strings.Contains(got, marker) {
					t.Fatalf("RedactPII(%q) = %q, missing %s", tc.in, got, marker)
				}
			}
		})
	}
}

func TestRedactPIICardNotTreatedAsPhone(t *testing.T) {
	got, _ := RedactPII("4111-1111-1111-1111")
	if strings.Contains(got, "[REDACTED_PHONE]") {
		t.Fatalf("card number redacted as phone: %q", got)
	}
	if !strings.Contains(got, "[REDACTED_CARD]") {
		t.Fatalf("card number not redacted: %q", got)
	}
}
