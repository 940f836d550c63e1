package shared

import (
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEveryWithBoundedGoroutines(t *testing.T) {
	values := []string{"a.py", "b.py", "c.py", "d.py", "e.py"}
	results := make([]string, len(values))

	var running, peak int32
	ForEveryWithBoundedGoroutines(2, values, func(i int, value string) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		results[i] = value
		atomic.AddInt32(&running, -1)
	})

	assert.Equal(t, values, results)
	assert.LessOrEqual(t, peak, int32(2))
}

func TestForEveryWithBoundedGoroutinesZeroLimit(t *testing.T) {
	var calls int32
	ForEveryWithBoundedGoroutines(0, []int{1, 2, 3}, func(int, int) {
		atomic.AddInt32(&calls, 1)
	})
	assert.Equal(t, int32(3), calls)
}

func TestHasFlags(t *testing.T) {
	flags := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	flags.String("rules", "", "")
	flags.Int("threads", 1, "")

	require.NoError(t, flags.Parse([]string{}))
	assert.False(t, HasFlags(flags))

	require.NoError(t, flags.Parse([]string{"--threads", "4"}))
	assert.True(t, HasFlags(flags))
}
