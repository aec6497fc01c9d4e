// Package redact strips sensitive fragments from strings before they reach
// logs or error responses: database connection strings, API keys, SQL text,
// file paths, and host addresses that error chains tend to drag along.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

// Rules applied in order. The SQL pattern runs before the path pattern so a
// query containing a slash is reported as SQL, not as a path.
var rules = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	// Connection strings with inline credentials, e.g. postgres://u:p@host/db.
	{
		regexp.MustCompile(`(?i)(postgres(ql)?|mysql|db|database|connection)://[^@\s]+@`),
		RedactedCredentialPlaceholder,
	},

	// Password fragments in key=value or key: value form.
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?|['"]?[=:])[^'"&\s]{3,}`),
		RedactedCredentialPlaceholder,
	},

	// API keys and tokens, including the Gemini key from LLM config errors.
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},

	// SQL statements leaked through driver errors.
	{
		regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|INDEX)(?:[\s\w,*()='"$]+)?`,
		),
		RedactedSQLPlaceholder,
	},

	// Filesystem paths, e.g. from workbook import failures.
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), RedactedPathPlaceholder},

	// Host:port pairs from connection errors.
	{
		regexp.MustCompile(
			`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
		),
		RedactedHostPlaceholder,
	},
	{regexp.MustCompile(`\b\d{1,3}(\.\d{1,3}){3}(:\d{1,5})?\b`), RedactedHostPlaceholder},
}

// String returns the input with every sensitive fragment replaced by its
// placeholder. Safe on empty input.
func String(input string) string {
	if input == "" {
		return input
	}

	out := input
	for _, rule := range rules {
		out = rule.re.ReplaceAllString(out, rule.placeholder)
	}
	return out
}

// Error redacts an error's message. A nil error redacts to the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
