package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"nothing completed", 0, 10, 0},
		{"half completed", 5, 10, 50},
		{"all completed", 10, 10, 100},
		{"no modules", 7, 0, 0},
		{"negative completed", -3, 10, 0},
		{"third rounds down", 1, 3, 33.33},
		{"two thirds rounds up", 2, 3, 66.67},
		{"one of seven", 1, 7, 14.29},
		{"overshoot is not clamped here", 12, 10, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.completed, tt.total))
		})
	}
}
