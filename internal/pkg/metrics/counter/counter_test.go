package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalCounters(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Add("test:hash", "a", 1)
	Add("test:hash", "a", 2)
	Add("test:hash", "b", 5)
	Add("other", "a", 1)

	assert.Equal(t, map[string]int64{"a": 3, "b": 5}, All("test:hash"))
	assert.Equal(t, map[string]int64{"a": 1}, All("other"))
	assert.Empty(t, All("missing"))
}
