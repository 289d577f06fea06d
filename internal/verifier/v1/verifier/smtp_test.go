package verifier

import (
	"context"
	"errors"
	"net/textproto"
	"testing"
	"time"

	"email-verifier-service/internal/constants"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRcpt(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "accepted",
			err:      nil,
			expected: constants.ActiveStatusActive,
		},
		{
			name:     "mailbox unavailable",
			err:      &textproto.Error{Code: 550, Msg: "5.1.1 user unknown"},
			expected: constants.ActiveStatusInactive,
		},
		{
			name:     "user not local",
			err:      &textproto.Error{Code: 551, Msg: "user not local"},
			expected: constants.ActiveStatusInactive,
		},
		{
			name:     "greylisting",
			err:      &textproto.Error{Code: 451, Msg: "try again later"},
			expected: constants.ActiveStatusUnknown,
		},
		{
			name:     "policy rejection",
			err:      &textproto.Error{Code: 554, Msg: "relay access denied"},
			expected: constants.ActiveStatusUnknown,
		},
		{
			name:     "transport failure",
			err:      errors.New("connection reset by peer"),
			expected: constants.ActiveStatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyRcpt(tt.err))
		})
	}
}

func TestProbeDialFailure(t *testing.T) {
	log := zerolog.Nop()
	prober := newSMTPProber(&log, 1, 100*time.Millisecond, "example.com", "verify@example.com")

	status := prober.Probe(context.Background(), "127.0.0.1", "joe@example.com")
	assert.Equal(t, constants.ActiveStatusUnknown, status)
}
