package metrics

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MetricKey identifies a metric by section type and key. The bundling
// pipeline uses types "file", "tree", and "bundle".
type MetricKey struct {
	Type string
	Key  string
}

// String returns a string representation of the MetricKey
func (k MetricKey) String() string {
	return fmt.Sprintf("%s:%s", k.Type, k.Key)
}

// MetricItem stores the metrics for a specific item
type MetricItem struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add adds the given metrics to this item
func (m *MetricItem) Add(bytes, tokens, lines int) {
	m.Bytes += bytes
	m.Tokens += tokens
	m.Lines += lines
}

// job is a pending count.
type job struct {
	typ     string
	key     string
	content []byte
}

// OutputMetrics collects metrics for bundle sections on a small worker
// pool, so token counting does not serialize output generation.
type OutputMetrics struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	jobs  chan job
	once  sync.Once
	Items map[MetricKey]MetricItem
	Ctr   Counter
}

// NewOutputMetrics creates a new OutputMetrics with the given counter and worker count
func NewOutputMetrics(counter Counter, workers int) *OutputMetrics {
	if workers < 1 {
		workers = 1
	}

	m := &OutputMetrics{
		jobs:  make(chan job, workers*2),
		Items: make(map[MetricKey]MetricItem),
		Ctr:   counter,
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(m.jobs)
	}

	return m
}

func (m *OutputMetrics) worker(jobs <-chan job) {
	defer m.wg.Done()

	for job := range jobs {
		bytes, tokens, lines := m.Ctr.Count(string(job.content))

		m.mu.Lock()
		key := MetricKey{Type: job.typ, Key: job.key}
		item := m.Items[key]
		item.Add(bytes, tokens, lines)
		m.Items[key] = item
		m.mu.Unlock()
	}
}

// Add queues content to be counted under the given type and key.
func (m *OutputMetrics) Add(typ, key string, content []byte) {
	m.jobs <- job{typ: typ, key: key, content: content}
}

// Wait waits for all pending jobs to complete. It is idempotent and can be
// called multiple times safely; Add must not be called after Wait. The mutex
// must not be held across wg.Wait, since workers take it per job.
func (m *OutputMetrics) Wait() {
	m.once.Do(func() {
		close(m.jobs)
	})
	m.wg.Wait()
}

// SumBy returns the sum of all metrics for the given type
func (m *OutputMetrics) SumBy(typeName string) MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum MetricItem
	for k, v := range m.Items {
		if k.Type == typeName {
			sum.Add(v.Bytes, v.Tokens, v.Lines)
		}
	}
	return sum
}

// Row is one entry of a per-type breakdown.
type Row struct {
	Key  string
	Item MetricItem
}

// Breakdown returns the items of the given type sorted by descending token
// count, for display.
func (m *OutputMetrics) Breakdown(typeName string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []Row
	for k, v := range m.Items {
		if k.Type == typeName {
			rows = append(rows, Row{k.Key, v})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Item.Tokens != rows[j].Item.Tokens {
			return rows[i].Item.Tokens > rows[j].Item.Tokens
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// MarshalJSON marshals the metrics to JSON with string keys
func (m *OutputMetrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]MetricItem, len(m.Items))
	for k, v := range m.Items {
		result[k.String()] = v
	}
	return json.Marshal(result)
}
