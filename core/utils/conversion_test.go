package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"Int", 5, 5},
		{"Int64", int64(1 << 40), 1 << 40},
		{"Float", 7.9, 7},
		{"String", " 4410 ", 4410},
		{"Negative string", "-5", -5},
		{"Bytes", []byte("12"), 12},
		{"Garbage", "12abc", 0},
		{"Nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt64(tt.in))
		})
	}
	assert.Equal(t, 3, ToInt("3"))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{"true", true},
		{"YES", true},
		{"1", true},
		{"no", false},
		{[]byte("true"), true},
		{3.0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToBool(tt.in), "%v", tt.in)
	}
}
