package safety

import (
	"regexp"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// sensitivePatterns maps each detected category to its pattern. The redaction
// token is the bracketed category name.
var sensitivePatterns = []struct {
	category domain.SensitiveDataType
	pattern  *regexp.Regexp
}{
	{domain.SensitiveDataSSN, regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)},
}

// ScanSensitive scans text for sensitive-data categories. It returns the text
// with every match replaced by its category tag (e.g. "[SSN]") and the list
// of categories that matched. An empty list means the text is safe.
func ScanSensitive(text string) (redacted string, reasons []domain.SensitiveDataType) {
	redacted = text
	for _, p := range sensitivePatterns {
		if !p.pattern.MatchString(redacted) {
			continue
		}
		redacted = p.pattern.ReplaceAllString(redacted, "["+string(p.category)+"]")
		reasons = append(reasons, p.category)
	}
	return redacted, reasons
}
