package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "***"

// Redactor masks credentials in log attributes.
type Redactor struct {
	patterns []*redactPattern
	keys     map[string]struct{}
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor returns a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			{
				regex:       regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer " + redacted,
			},
			{
				// JSON Web Tokens: three base64url segments, the first two
				// starting with "eyJ".
				regex:       regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]*`),
				replacement: redacted,
			},
		},
		keys: map[string]struct{}{
			"authorization": {},
			"token":         {},
			"access_token":  {},
			"bearer":        {},
		},
	}
}

// RedactString masks every credential found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. Attributes whose
// key names a credential are masked outright; string and error values are
// scanned for tokens.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := r.keys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}
