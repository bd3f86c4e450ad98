package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBool(t *testing.T) {
	tests := []struct {
		in   interface{}
		want bool
	}{
		{nil, false},
		{true, true},
		{1, true},
		{int64(0), false},
		{"yes", true},
		{"0", false},
		{[]byte("1"), true},
		{"garbage", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToBool(tt.in), "%v", tt.in)
	}
}

func TestToInt(t *testing.T) {
	n, ok := ToInt("42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = ToInt(float64(3))
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = ToInt("x")
	assert.False(t, ok)
	_, ok = ToInt(nil)
	assert.False(t, ok)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "5", ToString(float64(5)))
	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "abc", ToString([]byte("abc")))
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	assert.True(t, IsValidUUID(id))
	assert.NotEqual(t, id, GenerateID())
	assert.False(t, IsValidUUID("not-a-uuid"))
}
