package endpoint

import (
	"net/url"
	"strings"
)

// ParseOverride validates an override value and returns the base URL it
// designates. Two forms are accepted:
//
//	host[:port]                  -> https://host[:port]
//	http(s)://host[:port][/]     -> as given, without the trailing slash
//
// Anything else (other schemes, a missing host, a path, query or fragment)
// yields ok == false. ParseOverride never panics.
func ParseOverride(raw string) (base string, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}

	if !strings.Contains(value, "://") {
		if strings.ContainsAny(value, "/?#") {
			return "", false
		}
		value = "https://" + value
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" || u.Hostname() == "" || u.User != nil {
		return "", false
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.Opaque != "" {
		return "", false
	}

	return u.Scheme + "://" + u.Host, true
}
