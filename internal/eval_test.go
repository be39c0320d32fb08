package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	assert := assert.New(t)

	value, err := Evaluate("A + 2 * B", map[string]int64{"A": 1, "B": 0x10})
	assert.NoError(err)
	assert.Equal(int64(0x21), value)

	value, err = Evaluate("0x800 | 3", nil)
	assert.NoError(err)
	assert.Equal(int64(0x803), value)

	_, err = Evaluate("'text'", nil)
	assert.ErrorIs(err, ErrNotInteger)

	_, err = Evaluate("UNKNOWN + 1", nil)
	assert.Error(err)

	_, err = Evaluate("1 << 70", nil)
	assert.ErrorIs(err, ErrNotInteger)
}
