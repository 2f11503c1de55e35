package safety

import (
	"testing"

	"github.com/xiaot623/genai-chat/internal/domain"
)

func TestSanitizeTrimsAndCollapses(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"\n What\n is\n in PowerStore? \n\n", "What is in PowerStore?"},
		{" What?\n\n\n\n\n ", "What?"},
		{"What is PowerStore?", "What is PowerStore?"},
		{"  plain  spaces  ", "plain  spaces"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestScanSensitiveRedactsSSN(t *testing.T) {
	redacted, reasons := ScanSensitive("My social security number is 555-55-5555")
	if redacted != "My social security number is [SSN]" {
		t.Fatalf("unexpected redaction: %q", redacted)
	}
	if len(reasons) != 1 || reasons[0] != domain.SensitiveDataSSN {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScanSensitiveRedactsEveryMatch(t *testing.T) {
	redacted, reasons := ScanSensitive("111-11-1111 and 222-22-2222")
	if redacted != "[SSN] and [SSN]" {
		t.Fatalf("unexpected redaction: %q", redacted)
	}
	if len(reasons) != 1 {
		t.Fatalf("category should be reported once, got %v", reasons)
	}
}

func TestScanSensitiveSafeInput(t *testing.T) {
	redacted, reasons := ScanSensitive("What is PowerStore?")
	if redacted != "What is PowerStore?" || len(reasons) != 0 {
		t.Fatalf("safe input changed: %q %v", redacted, reasons)
	}
}
