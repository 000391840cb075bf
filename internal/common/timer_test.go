package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNamedTimer(t *testing.T) {
	timer := NewNamedTimer("classify")
	assert.Equal(t, "classify", timer.Name())

	time.Sleep(10 * time.Millisecond)

	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Equal(t, elapsed, timer.Duration())
	assert.Contains(t, timer.String(), "classify:")
}

func TestUnnamedTimer(t *testing.T) {
	timer := NewTimer()
	assert.Empty(t, timer.Name())

	elapsed := timer.Stop()
	assert.Equal(t, elapsed.String(), timer.String())
}
