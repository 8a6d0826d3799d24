// Package segment provides Store, a growable byte store built from a chain
// of fixed-size blocks.
//
// The first block has Options.BlockSize bytes and every later block
// Options.GrowthBlockSize bytes. Growing appends blocks; bytes already
// written are never copied. Writes may land anywhere, including past the
// current length, in which case the gap reads back as zeros.
//
// A Store performs no locking; Locker returns a stable token for the owner's
// own synchronization. Close releases the blocks and every later call fails
// with ErrClosed.
package segment

import (
	"fmt"
	"io"
	"math"
)

// DefaultBlockSize is used when Options.BlockSize is not positive.
const DefaultBlockSize = 4096

// Options configures a Store. Zero values are safe; defaults are applied in New:
//   - BlockSize <= 0        => DefaultBlockSize
//   - GrowthBlockSize <= 0  => BlockSize
//   - MaxCapacity <= 0      => unbounded
type Options struct {
	// BlockSize is the size of the first block.
	BlockSize int

	// GrowthBlockSize is the size of every block after the first.
	GrowthBlockSize int

	// MaxCapacity caps Len(). A write ending past it fails with
	// ErrCapacityExhausted.
	MaxCapacity int64
}

// Store is a block-chained byte store. It is not safe for concurrent use.
//
// Invariant: Cap() >= Len(), and every byte at or past Len() is zero.
type Store struct {
	blocks [][]byte
	first  int   // size of blocks[0]
	growth int   // size of blocks[1:]
	length int64 // high-water mark
	max    int64 // 0 = unbounded
	closed bool
}

// New builds an empty Store. No block is allocated until the first write.
func New(opt Options) *Store {
	if opt.BlockSize <= 0 {
		opt.BlockSize = DefaultBlockSize
	}
	if opt.GrowthBlockSize <= 0 {
		opt.GrowthBlockSize = opt.BlockSize
	}
	if opt.MaxCapacity < 0 {
		opt.MaxCapacity = 0
	}
	return &Store{
		first:  opt.BlockSize,
		growth: opt.GrowthBlockSize,
		max:    opt.MaxCapacity,
	}
}

// NewFixed returns an unbounded store whose blocks all have blockSize bytes.
func NewFixed(blockSize int) *Store {
	return New(Options{BlockSize: blockSize})
}

// NewGrowing returns an unbounded store with distinct first and growth block sizes.
func NewGrowing(blockSize, growthBlockSize int) *Store {
	return New(Options{BlockSize: blockSize, GrowthBlockSize: growthBlockSize})
}

// NewBounded is NewGrowing with a maximum length.
func NewBounded(blockSize, growthBlockSize int, maxCapacity int64) *Store {
	return New(Options{BlockSize: blockSize, GrowthBlockSize: growthBlockSize, MaxCapacity: maxCapacity})
}

// Len returns the high-water mark: the largest position+count written so far.
func (s *Store) Len() int64 { return s.length }

// Cap returns the number of bytes held by allocated blocks.
func (s *Store) Cap() int64 { return s.capFor(len(s.blocks)) }

// Blocks returns the number of allocated blocks.
func (s *Store) Blocks() int { return len(s.blocks) }

// Disabled reports whether Close has been called.
func (s *Store) Disabled() bool { return s.closed }

// Locker returns a token identifying this store, the same value on every
// call. The store never locks it.
func (s *Store) Locker() any { return s }

// Append writes p[offset:offset+count] at Len() and returns the new length.
func (s *Store) Append(p []byte, offset, count int) (int64, error) {
	if err := s.Write(p, offset, count, s.length); err != nil {
		return s.length, err
	}
	return s.length, nil
}

// Write stores p[offset:offset+count] at the absolute position. Writing past
// Len() leaves a zero-filled gap. On error nothing is modified.
//
// The gap is backed by real blocks: on an unbounded store a write at a large
// position, even with count 0, allocates every block up to it. Set
// Options.MaxCapacity when positions come from untrusted input.
func (s *Store) Write(p []byte, offset, count int, position int64) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkRange(p, offset, count); err != nil {
		return err
	}
	if position < 0 {
		return fmt.Errorf("%w: position=%d", ErrOutOfRange, position)
	}
	if position > math.MaxInt64-int64(count) {
		if s.max > 0 {
			return fmt.Errorf("%w: write at %d+%d overflows, max %d", ErrCapacityExhausted, position, count, s.max)
		}
		return fmt.Errorf("%w: write at %d+%d overflows", ErrOutOfRange, position, count)
	}
	end := position + int64(count)
	if s.max > 0 && end > s.max {
		return fmt.Errorf("%w: write ends at %d, max %d", ErrCapacityExhausted, end, s.max)
	}
	s.grow(end)

	src := p[offset : offset+count]
	for pos := position; len(src) > 0; {
		blk, off := s.locate(pos)
		n := copy(s.blocks[blk][off:], src)
		src = src[n:]
		pos += int64(n)
	}
	if end > s.length {
		s.length = end
	}
	return nil
}

// Read copies min(count, Len()) bytes from the start of the store into
// dst[offset:] and returns the number copied.
func (s *Store) Read(dst []byte, offset, count int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := checkRange(dst, offset, count); err != nil {
		return 0, err
	}
	return s.copyOut(dst[offset:offset+count], 0), nil
}

// ReadAt implements io.ReaderAt. It returns io.EOF when fewer than len(p)
// bytes exist past off.
func (s *Store) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: position=%d", ErrOutOfRange, off)
	}
	n := s.copyOut(p, off)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt on top of Write, with the same allocation
// cost for far offsets.
func (s *Store) WriteAt(p []byte, off int64) (int, error) {
	if err := s.Write(p, 0, len(p), off); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteTo implements io.WriterTo, streaming the stored bytes block by block.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var total int64
	remaining := s.length
	for _, blk := range s.blocks {
		if remaining == 0 {
			break
		}
		chunk := blk[:min(int64(len(blk)), remaining)]
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n < len(chunk) {
			return total, io.ErrShortWrite
		}
		remaining -= int64(n)
	}
	return total, nil
}

// Close releases every block. It is idempotent.
func (s *Store) Close() error {
	s.blocks = nil
	s.length = 0
	s.closed = true
	return nil
}

// ---- internals ----

func checkRange(p []byte, offset, count int) error {
	if offset < 0 || count < 0 || offset > len(p) || count > len(p)-offset {
		return fmt.Errorf("%w: offset=%d count=%d len=%d", ErrOutOfRange, offset, count, len(p))
	}
	return nil
}

// capFor returns the capacity of the first n blocks.
func (s *Store) capFor(n int) int64 {
	if n == 0 {
		return 0
	}
	return int64(s.first) + int64(n-1)*int64(s.growth)
}

// grow appends zeroed blocks until Cap() >= size.
func (s *Store) grow(size int64) {
	for s.Cap() < size {
		n := s.growth
		if len(s.blocks) == 0 {
			n = s.first
		}
		s.blocks = append(s.blocks, make([]byte, n))
	}
}

// locate maps an absolute position onto (block index, offset in block).
func (s *Store) locate(pos int64) (int, int) {
	if pos < int64(s.first) {
		return 0, int(pos)
	}
	rel := pos - int64(s.first)
	return 1 + int(rel/int64(s.growth)), int(rel % int64(s.growth))
}

// copyOut copies stored bytes starting at pos into dst, bounded by Len().
func (s *Store) copyOut(dst []byte, pos int64) int {
	if pos >= s.length {
		return 0
	}
	dst = dst[:min(int64(len(dst)), s.length-pos)]
	copied := 0
	for copied < len(dst) {
		blk, off := s.locate(pos)
		n := copy(dst[copied:], s.blocks[blk][off:])
		copied += n
		pos += int64(n)
	}
	return copied
}
