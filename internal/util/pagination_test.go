package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 4, Offset(5, 1))
}

func TestPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(1, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 2, Pages(2, 1))
	assert.Equal(t, 0, Pages(5, 0))
}
