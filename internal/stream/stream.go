// Package stream simulates token streaming over a non-streaming
// upstream call: a complete answer is wrapped by a reader that yields
// one character at a time with a fixed delay. The consumer contract is
// a plain io.Reader, so a genuinely streaming source could be
// substituted without touching the relay.
package stream

import (
	"context"
	"io"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// DefaultCharDelay is the inter-character delay used by the relay.
const DefaultCharDelay = 20 * time.Millisecond

// Reader emits the wrapped text one rune per Read call. A delay of
// zero or below disables pacing (used by tests).
type Reader struct {
	ctx     context.Context
	rest    string
	limiter *rate.Limiter
}

func NewReader(ctx context.Context, text string, delay time.Duration) *Reader {
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Reader{ctx: ctx, rest: text, limiter: limiter}
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		return 0, io.EOF
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(r.ctx); err != nil {
			return 0, err
		}
	}

	_, size := utf8.DecodeRuneInString(r.rest)
	if size > len(p) {
		return 0, io.ErrShortBuffer
	}

	n := copy(p, r.rest[:size])
	r.rest = r.rest[size:]
	return n, nil
}
