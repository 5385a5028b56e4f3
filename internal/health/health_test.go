package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	up   = PingFunc(func(context.Context) error { return nil })
	down = PingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func TestCheckBasic(t *testing.T) {
	tests := []struct {
		name        string
		db, redis   Pinger
		want        string
		redisStatus string
	}{
		{"all up", up, up, "healthy", "healthy"},
		{"no cache configured", up, nil, "healthy", "disabled"},
		{"cache down", up, down, "degraded", "unhealthy"},
		{"database down", down, up, "unhealthy", "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthChecker(tt.db, tt.redis).CheckBasic()
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.redisStatus, got.Redis.Status)
		})
	}
}

func TestCheckDetailed(t *testing.T) {
	got := NewHealthChecker(down, nil).CheckDetailed()
	assert.Equal(t, "unhealthy", got.Status)
	assert.Equal(t, "connection refused", got.Database.Error)
	assert.Positive(t, got.Host.Goroutines)
}
