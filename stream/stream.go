// Package stream moves data between io.Readers and io.Writers through the
// bufkit byte containers.
//
// Every helper takes its scratch buffer as a parameter. Callers that copy
// often can keep one scratch slice per goroutine and reuse it; passing nil
// allocates DefaultScratchSize bytes for that call only.
package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/IvanBrykalov/bufkit/ring"
	"github.com/IvanBrykalov/bufkit/segment"
)

// DefaultScratchSize is the scratch allocation used when none is supplied.
const DefaultScratchSize = 32 << 10

// ErrNoProgress is returned when maxConsecutiveEmptyReads passes in a row
// neither read nor wrote anything.
var ErrNoProgress = errors.New("stream: no progress")

// maxConsecutiveEmptyReads matches the tolerance bufio gives readers that
// return (0, nil).
const maxConsecutiveEmptyReads = 100

func scratchOrDefault(scratch []byte) []byte {
	if len(scratch) == 0 {
		return make([]byte, DefaultScratchSize)
	}
	return scratch
}

// Pump copies src to dst, staging the bytes in buf. It reads while buf has
// room and drains buf into dst, until src returns io.EOF and buf is empty.
// Bytes already buffered when Pump is called are delivered first.
//
// It returns the number of bytes written to dst.
func Pump(dst io.Writer, src io.Reader, buf *ring.Buffer, scratch []byte) (int64, error) {
	scratch = scratchOrDefault(scratch)
	var written int64
	eof := false
	empty := 0

	for !eof || buf.Readable() > 0 {
		progressed := false

		if !eof && buf.Writable() > 0 {
			n, err := src.Read(scratch[:min(len(scratch), buf.Writable())])
			if n > 0 {
				buf.Write(scratch[:n])
				progressed = true
			}
			switch {
			case errors.Is(err, io.EOF):
				eof = true
				progressed = true
			case err != nil:
				return written, fmt.Errorf("stream: read: %w", err)
			}
		}

		for buf.Readable() > 0 {
			n, _ := buf.PeekInto(scratch, 0)
			w, err := dst.Write(scratch[:n])
			buf.Discard(w)
			written += int64(w)
			if w > 0 {
				progressed = true
			}
			if err != nil {
				return written, fmt.Errorf("stream: write: %w", err)
			}
			if w < n {
				return written, io.ErrShortWrite
			}
		}

		if progressed {
			empty = 0
			continue
		}
		if empty++; empty >= maxConsecutiveEmptyReads {
			return written, ErrNoProgress
		}
	}
	return written, nil
}

// Stage appends everything src yields to store and returns the byte count.
// A write rejected by the store (capacity exhausted, closed) stops staging;
// the chunk that failed is not stored. A source that keeps returning (0, nil)
// ends staging with ErrNoProgress.
func Stage(store *segment.Store, src io.Reader, scratch []byte) (int64, error) {
	scratch = scratchOrDefault(scratch)
	var total int64
	empty := 0
	for {
		n, err := src.Read(scratch)
		if n == 0 && err == nil {
			if empty++; empty >= maxConsecutiveEmptyReads {
				return total, ErrNoProgress
			}
			continue
		}
		empty = 0
		if n > 0 {
			if _, werr := store.Append(scratch, 0, n); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("stream: read: %w", err)
		}
	}
}
