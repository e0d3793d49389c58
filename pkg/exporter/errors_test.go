package exporter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "token", KindToken.String())
	assert.Equal(t, "transient", KindTransient.String())
	assert.Equal(t, "permanent", KindPermanent.String())
	assert.Equal(t, "kind(42)", ErrorKind(42).String())
}

func TestError_Message(t *testing.T) {
	cause := errors.New("server said no")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with status",
			err:  &Error{Kind: KindTransient, TenantID: "t", AgentID: "a", StatusCode: 503, Attempts: 4, Cause: cause},
			want: `agent365 export transient failure for tenant "t" agent "a" (status 503 after 4 attempts): server said no`,
		},
		{
			name: "network only",
			err:  &Error{Kind: KindTransient, TenantID: "t", AgentID: "a", Attempts: 2},
			want: `agent365 export transient failure for tenant "t" agent "a" (after 2 attempts)`,
		},
		{
			name: "token",
			err:  &Error{Kind: KindToken, TenantID: "t", AgentID: "a", Cause: ErrNoToken},
			want: `agent365 export token failure for tenant "t" agent "a": token resolver returned no token`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindToken, Cause: ErrNoToken})

	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, KindToken, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestExportResult_String(t *testing.T) {
	assert.Equal(t, "SUCCESS", Success.String())
	assert.Equal(t, "FAILURE", Failure.String())
}
