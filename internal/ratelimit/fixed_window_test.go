package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowReportsItsConfiguration(t *testing.T) {
	limiter := NewFixedWindow(nil, 120, time.Minute)

	assert.Equal(t, 120, limiter.Limit())
	assert.Equal(t, time.Minute, limiter.Window())
}
