package ring

import (
	"fmt"

	"github.com/IvanBrykalov/bufkit/internal/util"
)

const (
	// DefaultCapacity is used when Options.MinCapacity is not positive.
	DefaultCapacity = 256
	// MaxCapacity is the largest capacity New accepts.
	MaxCapacity = 1 << 30
)

// Options configures a Buffer. The zero value yields a DefaultCapacity
// buffer whose backing array may be retrieved with Bytes.
type Options struct {
	// MinCapacity is rounded up to the next power of two.
	MinCapacity int

	// HideBuffer makes Bytes fail with ErrAccessDenied for the whole
	// lifetime of the buffer.
	HideBuffer bool
}

// Buffer is a fixed-capacity ring of bytes. It is not safe for concurrent
// use; see SyncRoot.
//
// Invariant: 0 <= size <= len(buf), and the readable bytes start at head
// and wrap around the end of buf.
type Buffer struct {
	buf  []byte
	mask int
	head int // read position
	size int // readable bytes

	hidden bool
}

// New allocates a Buffer. It panics if MinCapacity exceeds MaxCapacity.
func New(opt Options) *Buffer {
	want := opt.MinCapacity
	if want <= 0 {
		want = DefaultCapacity
	}
	if want > MaxCapacity {
		panic(fmt.Sprintf("ring: capacity %d exceeds %d", want, MaxCapacity))
	}
	c := util.CeilPow2(want)
	return &Buffer{
		buf:    make([]byte, c),
		mask:   c - 1,
		hidden: opt.HideBuffer,
	}
}

// Capacity returns the total size of the ring.
func (b *Buffer) Capacity() int { return len(b.buf) }

// Readable returns the number of buffered bytes.
func (b *Buffer) Readable() int { return b.size }

// Writable returns the free space, Capacity() - Readable().
func (b *Buffer) Writable() int { return len(b.buf) - b.size }

// CanRead reports whether at least n bytes are buffered.
func (b *Buffer) CanRead(n int) bool { return b.size >= n }

// CanWrite reports whether at least n bytes fit without truncation.
func (b *Buffer) CanWrite(n int) bool { return b.Writable() >= n }

// Write appends as much of p as fits and returns the number of bytes copied.
// It never fails; a full buffer yields 0.
func (b *Buffer) Write(p []byte) int {
	n := min(len(p), b.Writable())
	if n == 0 {
		return 0
	}
	tail := (b.head + b.size) & b.mask
	k := copy(b.buf[tail:], p[:n])
	copy(b.buf, p[k:n])
	b.size += n
	return n
}

// WriteRange writes p[offset:offset+count]. It only fails with ErrOutOfRange
// when the range lies outside p; a full buffer truncates instead.
func (b *Buffer) WriteRange(p []byte, offset, count int) (int, error) {
	if offset < 0 || count < 0 || offset > len(p) || count > len(p)-offset {
		return 0, fmt.Errorf("%w: offset=%d count=%d len=%d", ErrOutOfRange, offset, count, len(p))
	}
	return b.Write(p[offset : offset+count]), nil
}

// Read consumes every buffered byte and returns it in a new slice.
func (b *Buffer) Read() []byte {
	p := b.Peek()
	b.Discard(len(p))
	return p
}

// ReadInto consumes min(Readable(), len(dst)-offset) bytes into dst[offset:].
func (b *Buffer) ReadInto(dst []byte, offset int) (int, error) {
	n, err := b.PeekInto(dst, offset)
	if err != nil {
		return 0, err
	}
	b.Discard(n)
	return n, nil
}

// Peek returns a copy of every buffered byte without consuming it.
func (b *Buffer) Peek() []byte {
	p := make([]byte, b.size)
	b.copyOut(p)
	return p
}

// PeekInto copies like ReadInto but leaves the bytes buffered, so repeated
// calls return identical data until the next Read or Write.
func (b *Buffer) PeekInto(dst []byte, offset int) (int, error) {
	if offset < 0 || offset > len(dst) {
		return 0, fmt.Errorf("%w: offset=%d len=%d", ErrOutOfRange, offset, len(dst))
	}
	return b.copyOut(dst[offset:]), nil
}

// Discard drops up to n buffered bytes without copying them and returns the
// number dropped.
func (b *Buffer) Discard(n int) int {
	n = max(0, min(n, b.size))
	b.head = (b.head + n) & b.mask
	b.size -= n
	if b.size == 0 {
		b.head = 0
	}
	return n
}

// Bytes returns the backing array itself, not a copy.
func (b *Buffer) Bytes() ([]byte, error) {
	if b.hidden {
		return nil, ErrAccessDenied
	}
	return b.buf, nil
}

// Flush discards every buffered byte. The buffer stays usable.
func (b *Buffer) Flush() {
	b.head, b.size = 0, 0
}

// Close is Flush; it exists so a Buffer can be released with defer. It is
// idempotent and always returns nil.
func (b *Buffer) Close() error {
	b.Flush()
	return nil
}

// SyncRoot returns a token identifying this buffer, the same value on every
// call. The buffer never locks it.
func (b *Buffer) SyncRoot() any { return b }

// copyOut copies up to len(dst) readable bytes starting at head.
func (b *Buffer) copyOut(dst []byte) int {
	n := min(len(dst), b.size)
	if n == 0 {
		return 0
	}
	end := b.head + n
	if end <= len(b.buf) {
		return copy(dst, b.buf[b.head:end])
	}
	k := copy(dst, b.buf[b.head:])
	copy(dst[k:n], b.buf[:n-k])
	return n
}
