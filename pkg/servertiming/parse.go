package servertiming

import "strings"

const (
	// HeaderName is the HTTP response header carrying server timing metrics.
	HeaderName = "Server-Timing"

	// MaxMetrics bounds the number of metric descriptors scanned per header value.
	MaxMetrics = 32

	// MaxHeaderLength bounds the number of bytes scanned per header value.
	MaxHeaderLength = 8 << 10
)

// Param is one `;`-separated parameter of a metric descriptor. Parameters
// written without `=` have HasValue unset and carry the raw token in Name.
type Param struct {
	Name     string
	Value    string
	HasValue bool
}

// Metric is one `,`-separated descriptor of a Server-Timing value.
type Metric struct {
	Name   string
	Params []Param
}

// Param returns the value of the first parameter called name.
func (m Metric) Param(name string) (string, bool) {
	for _, p := range m.Params {
		if p.HasValue && strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Parse splits a Server-Timing header value into metric descriptors.
// Malformed pieces are skipped; at most MaxMetrics descriptors are returned
// and bytes past MaxHeaderLength are not looked at.
func Parse(headerValue string) []Metric {
	if len(headerValue) > MaxHeaderLength {
		headerValue = headerValue[:MaxHeaderLength]
	}

	var metrics []Metric
	for _, raw := range splitUnquoted(headerValue, ',', MaxMetrics) {
		parts := splitUnquoted(raw, ';', -1)
		name := strings.TrimSpace(parts[0])
		if name == "" || strings.ContainsAny(name, "\"=") {
			continue
		}
		m := Metric{Name: name}
		for _, p := range parts[1:] {
			if param, ok := parseParam(p); ok {
				m.Params = append(m.Params, param)
			}
		}
		metrics = append(metrics, m)
	}
	return metrics
}

func parseParam(raw string) (Param, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Param{}, false
	}
	eq := indexUnquoted(raw, '=')
	if eq < 0 {
		return Param{Name: unquote(raw)}, true
	}
	name := strings.TrimSpace(raw[:eq])
	if name == "" {
		return Param{}, false
	}
	return Param{
		Name:     name,
		Value:    unquote(strings.TrimSpace(raw[eq+1:])),
		HasValue: true,
	}, true
}

// splitUnquoted splits s on sep, ignoring separators inside quoted strings.
// A negative limit means no limit.
func splitUnquoted(s string, sep byte, limit int) []string {
	var (
		out     []string
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case !quoted && c == sep:
			out = append(out, s[start:i])
			start = i + 1
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return append(out, s[start:])
}

func indexUnquoted(s string, c byte) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			quoted = !quoted
		case !quoted && s[i] == c:
			return i
		}
	}
	return -1
}

// unquote strips a surrounding quoted-string and resolves backslash escapes.
// Unterminated quotes are returned as they are.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, `\`) {
		return inner
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
