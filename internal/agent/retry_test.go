package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, p.delay(1))
	assert.Equal(t, 2*time.Second, p.delay(2))
	assert.Equal(t, 4*time.Second, p.delay(3))
}

func TestRetryPolicy_DelayCapsAtMaxDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 10, InitialDelay: time.Second, Multiplier: 2.0, MaxDelay: 5 * time.Second}
	assert.Equal(t, 5*time.Second, p.delay(5))
	assert.Equal(t, 5*time.Second, p.delay(6))
}
