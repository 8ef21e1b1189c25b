package logstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainAllIsFIFOAndDestructive(t *testing.T) {
	b := New()
	b.Append("L1")
	b.Append("L2")
	b.Append("L3")

	events := b.DrainAll()
	require.Len(t, events, 3)
	for i, want := range []string{"L1", "L2", "L3"} {
		line, ok := events[i].(Line)
		require.True(t, ok, "event %d is not a Line", i)
		assert.Equal(t, want, line.Message)
	}

	assert.Empty(t, b.DrainAll(), "second drain returns nothing")
}

func TestEventUnion(t *testing.T) {
	b := New()
	b.Append("building")
	b.Progress("docker_build", 70)
	b.Finish(true)

	events := b.DrainAll()
	require.Len(t, events, 4) // line, progress, success line, terminal

	p, ok := events[1].(Progress)
	require.True(t, ok)
	assert.Equal(t, "docker_build", p.Stage)
	assert.Equal(t, 70, p.Percent)

	term, ok := events[3].(Terminal)
	require.True(t, ok)
	assert.True(t, term.Succeeded)
}

func TestFinishFailureMarkerIsDistinct(t *testing.T) {
	b := New()
	b.Finish(false)

	events := b.DrainAll()
	require.Len(t, events, 2)
	line := events[0].(Line)
	assert.Contains(t, line.Message, "failed")
	term := events[1].(Terminal)
	assert.False(t, term.Succeeded)
}

func TestLineStringCarriesTimestamp(t *testing.T) {
	b := New()
	b.Append("hello")
	line := b.DrainAll()[0].(Line)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] hello$`, line.String())
}
