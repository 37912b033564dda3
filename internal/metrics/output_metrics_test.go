package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// slowCounter delays each count so jobs are still in flight when Wait runs.
type slowCounter struct {
	delay time.Duration
}

func (c *slowCounter) Count(text string) (int, int, int) {
	time.Sleep(c.delay)
	return len(text), len(text) / 4, 1
}

func TestSimpleCounter(t *testing.T) {
	c := &SimpleCounter{}
	bytes, tokens, lines := c.Count("hello world\nsecond line\n")

	assert.Equal(t, 24, bytes)
	assert.Equal(t, 6, tokens)
	assert.Equal(t, 3, lines)
}

func TestOutputMetricsAggregates(t *testing.T) {
	assert := assert.New(t)

	m := NewOutputMetrics(&SimpleCounter{}, 4)
	m.Add("file", "a.go", []byte("package a\n"))
	m.Add("file", "b.go", []byte("package b\n"))
	m.Add("tree", "index", []byte("└── a.go\n"))
	m.Wait()

	files := m.SumBy("file")
	assert.Equal(20, files.Bytes)

	tree := m.SumBy("tree")
	assert.NotZero(tree.Bytes)

	assert.Zero(m.SumBy("missing").Bytes)
}

func TestOutputMetricsWaitIdempotent(t *testing.T) {
	m := NewOutputMetrics(&SimpleCounter{}, 1)
	m.Add("file", "a", []byte("x"))
	m.Wait()
	m.Wait()

	assert.Equal(t, 1, m.SumBy("file").Bytes)
}

func TestWaitDrainsInFlightJobs(t *testing.T) {
	// Jobs queued but not yet counted when Wait is called must all be
	// drained: Wait may not hold the items mutex across the join, and
	// workers must observe the channel close.
	m := NewOutputMetrics(&slowCounter{delay: 50 * time.Millisecond}, 2)
	for i := 0; i < 6; i++ {
		m.Add("file", "a", []byte("xxxx"))
	}
	m.Wait()

	assert.Equal(t, 24, m.SumBy("file").Bytes)
}

func TestBreakdownSorted(t *testing.T) {
	m := NewOutputMetrics(&SimpleCounter{}, 2)
	m.Add("file", "small", []byte("1234"))
	m.Add("file", "large", []byte("123456789012345678901234"))
	m.Wait()

	rows := m.Breakdown("file")
	assert.Len(t, rows, 2)
	assert.Equal(t, "large", rows[0].Key)
	assert.Equal(t, "small", rows[1].Key)
}
