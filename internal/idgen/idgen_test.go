package idgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base36 = regexp.MustCompile(`^[0-9a-z]{9}$`)

func TestRandom_NewID(t *testing.T) {
	gen := Random{}
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		id := gen.NewID()
		require.Regexp(t, base36, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q after %d draws", id, i)
		seen[id] = struct{}{}
	}
}

func TestSequence_NewID(t *testing.T) {
	seq := NewSequence("t")
	assert.Equal(t, "t1", seq.NewID())
	assert.Equal(t, "t2", seq.NewID())

	other := NewSequence("")
	assert.Equal(t, "1", other.NewID())
}

func TestFunc_NewID(t *testing.T) {
	var gen Generator = Func(func() string { return "fixed" })
	assert.Equal(t, "fixed", gen.NewID())
}
