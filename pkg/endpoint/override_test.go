package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "empty", raw: "", wantOK: false},
		{name: "blank", raw: "   ", wantOK: false},
		{name: "bare host", raw: "telemetry.contoso.com", want: "https://telemetry.contoso.com", wantOK: true},
		{name: "bare host with port", raw: "localhost:8443", want: "https://localhost:8443", wantOK: true},
		{name: "surrounding whitespace", raw: "  localhost:8443 ", want: "https://localhost:8443", wantOK: true},
		{name: "https url", raw: "https://gw.contoso.com", want: "https://gw.contoso.com", wantOK: true},
		{name: "http url with port", raw: "http://127.0.0.1:4318", want: "http://127.0.0.1:4318", wantOK: true},
		{name: "trailing slash", raw: "https://gw.contoso.com/", want: "https://gw.contoso.com", wantOK: true},
		{name: "uppercase scheme", raw: "HTTPS://gw.contoso.com", want: "https://gw.contoso.com", wantOK: true},
		{name: "bare host with path", raw: "gw.contoso.com/traces", wantOK: false},
		{name: "url with path", raw: "https://gw.contoso.com/v1", wantOK: false},
		{name: "url with query", raw: "https://gw.contoso.com?x=1", wantOK: false},
		{name: "wrong scheme", raw: "ftp://gw.contoso.com", wantOK: false},
		{name: "missing host", raw: "https://", wantOK: false},
		{name: "port only", raw: "https://:8080", wantOK: false},
		{name: "garbage", raw: "http://%zz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOverride(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
