package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The throttle fails open: a fresh IP is always allowed whether Redis is
// reachable or not, and recording failures below the hourly limit never
// blocks access.
func TestPinAttemptFailOpen(t *testing.T) {
	ip := "203.0.113.77"

	assert.True(t, PinAttemptAllowed(ip))

	PinAttemptFailed(ip)
	assert.True(t, PinAttemptAllowed(ip))
}
