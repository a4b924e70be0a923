package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name       string
		successful int
		total      int
		want       int
	}{
		{"no payments", 0, 0, 0},
		{"all failed", 0, 4, 0},
		{"half", 1, 2, 50},
		{"two of three rounds up", 2, 3, 67},
		{"one of three rounds down", 1, 3, 33},
		{"all successful", 5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuccessRate(tt.successful, tt.total))
		})
	}
}
