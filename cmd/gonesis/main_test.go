package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/gonesis/gonesis/config"
	"github.com/valerio/gonesis/gonesis/timing"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name string
		want timing.Limiter
	}{
		{config.LimiterAdaptive, &timing.AdaptiveLimiter{}},
		{config.LimiterTicker, &timing.TickerLimiter{}},
		{"", &timing.AdaptiveLimiter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(tt.name)
			assert.IsType(t, tt.want, l)
			if ticker, ok := l.(*timing.TickerLimiter); ok {
				ticker.Stop()
			}
		})
	}

	assert.Equal(t, timing.NewNoOpLimiter(), newLimiter(config.LimiterNone))
}
