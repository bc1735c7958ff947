package kitelog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerbosef(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "seed-7")

	l.Verbosef("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.WithVerbose(true).Verbosef("shown %d", 2)
	assert.Contains(t, buf.String(), "[run=seed-7] ")
	assert.Contains(t, buf.String(), "shown 2")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDurationsFlush(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "").WithDurations()

	l.Durations.Record("round 1", 2*time.Millisecond)
	l.Durations.Record("round 2", 3*time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, l.Durations.Total())

	l.Durations.Flush(l)
	out := buf.String()
	assert.Contains(t, out, "round 1")
	assert.Contains(t, out, "round 2")
	assert.Contains(t, out, "total")
	assert.Empty(t, l.Durations)

	// flushing nothing writes nothing
	buf.Reset()
	l.Durations.Flush(l)
	assert.Empty(t, buf.String())
}
