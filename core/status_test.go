package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompletedStatus(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil means completed", nil, true},
		{"bool true", true, true},
		{"bool false", false, false},
		{"synonym completed", "completed", true},
		{"synonym uppercase", "  DONE  ", true},
		{"synonym success", "success", true},
		{"synonym ok", "ok", true},
		{"string one", "1", true},
		{"string true", "true", true},
		{"non-synonym", "in_progress", false},
		{"int one", 1, true},
		{"int zero", 0, false},
		{"int64 one", int64(1), true},
		{"float one", 1.0, true},
		{"float other", 0.5, false},
		{"unrecognized type", struct{}{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompletedStatus(tt.value))
		})
	}
}
