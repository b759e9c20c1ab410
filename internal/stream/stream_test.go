package stream

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_EmitsOneRunePerRead(t *testing.T) {
	r := NewReader(context.Background(), "héllo", 0)

	var chunks []string
	buf := make([]byte, 8)
	for {
		n, err := r.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, string(buf[:n]))
	}

	assert.Equal(t, []string{"h", "é", "l", "l", "o"}, chunks)
}

func TestReader_DrainEqualsInput(t *testing.T) {
	text := "the concatenation of all chunks equals the answer"
	r := NewReader(context.Background(), text, 0)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, text, string(out))
}

func TestReader_EmptyText(t *testing.T) {
	r := NewReader(context.Background(), "", time.Millisecond)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(ctx, "abc", time.Millisecond)
	buf := make([]byte, 4)
	_, err := r.Read(buf)
	assert.Error(t, err)
}

func TestReader_Pacing(t *testing.T) {
	delay := 5 * time.Millisecond
	r := NewReader(context.Background(), "abcde", delay)

	start := time.Now()
	_, err := io.ReadAll(r)
	require.NoError(t, err)

	// First emission is immediate; four more wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 4*delay)
}
