package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"calentry/internal/model"
)

func TestPageWindow(t *testing.T) {
	events := make([]model.Event, 7)
	for i := range events {
		events[i].Description = string(rune('a' + i))
	}

	tests := []struct {
		name string
		page int
		size int
		want int
	}{
		{"first full page", 0, 5, 5},
		{"last partial page", 1, 5, 2},
		{"past the end", 2, 5, 0},
		{"size larger than list", 0, 20, 7},
		{"negative page", -1, 5, 0},
		{"non-positive size", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, pageWindow(events, tt.page, tt.size), tt.want)
		})
	}

	// Window content lines up with positions, not just lengths.
	got := pageWindow(events, 1, 5)
	assert.Equal(t, "f", got[0].Description)
	assert.Equal(t, "g", got[1].Description)
}

func TestPageCountHelper(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 3, pageCount(23, 10))
	assert.Equal(t, 1, pageCount(5, 0))
}
