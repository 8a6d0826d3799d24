package ring

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Capacity is the smallest power of two >= MinCapacity.
func TestNew_RoundsCapacityToPow2(t *testing.T) {
	t.Parallel()

	for req, want := range map[int]int{1: 1, 2: 2, 12: 16, 16: 16, 18: 32, 1000: 1024, 0: DefaultCapacity, -3: DefaultCapacity} {
		b := New(Options{MinCapacity: req})
		if got := b.Capacity(); got != want {
			t.Fatalf("MinCapacity %d: capacity %d, want %d", req, got, want)
		}
		if b.Readable() != 0 || b.Writable() != want {
			t.Fatalf("MinCapacity %d: fresh buffer must be empty", req)
		}
	}
}

func TestNew_PanicsAboveMax(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(Options{MinCapacity: MaxCapacity + 1})
}

// Capacity 12 -> 16; writing five bytes leaves 11 writable and Peek is stable.
func TestBuffer_WritePeekExample(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 12})
	want := []byte{1, 2, 3, 4, 5}

	if n := b.Write(want); n != 5 {
		t.Fatalf("Write = %d, want 5", n)
	}
	if b.Writable() != 11 || b.Readable() != 5 {
		t.Fatalf("writable=%d readable=%d, want 11/5", b.Writable(), b.Readable())
	}

	first := b.Peek()
	second := b.Peek()
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first Peek mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Peek not idempotent (-first +second):\n%s", diff)
	}
	if b.Writable() != 11 || b.Readable() != 5 {
		t.Fatal("Peek must not change counters")
	}
}

// Overfilling returns exactly the writable count; a full buffer accepts 0.
func TestBuffer_WriteTruncatesWhenFull(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 8})
	b.Write([]byte{9, 9, 9})

	n := b.Write(bytes.Repeat([]byte{7}, 20))
	if n != 5 {
		t.Fatalf("Write = %d, want 5", n)
	}
	if b.Writable() != 0 || !b.CanRead(8) || b.CanWrite(1) {
		t.Fatal("buffer must be full")
	}
	if n := b.Write([]byte{1}); n != 0 {
		t.Fatalf("write into full buffer = %d, want 0", n)
	}
	if got, err := b.WriteRange([]byte{1, 2}, 0, 2); err != nil || got != 0 {
		t.Fatalf("WriteRange into full buffer = %d, %v", got, err)
	}
}

func TestBuffer_RangeValidation(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 8})
	src := []byte{1, 2, 3, 4}

	bad := [][2]int{{-1, 1}, {0, 5}, {3, 2}, {5, 0}, {0, -1}}
	for _, r := range bad {
		if _, err := b.WriteRange(src, r[0], r[1]); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("WriteRange(%d,%d) err=%v, want ErrOutOfRange", r[0], r[1], err)
		}
	}
	if b.Readable() != 0 {
		t.Fatal("failed writes must not mutate the buffer")
	}

	n, err := b.WriteRange(src, 1, 2)
	if err != nil || n != 2 {
		t.Fatalf("WriteRange(1,2) = %d, %v", n, err)
	}
	if diff := cmp.Diff([]byte{2, 3}, b.Peek()); diff != "" {
		t.Fatalf("content mismatch:\n%s", diff)
	}

	dst := make([]byte, 4)
	if _, err := b.ReadInto(dst, 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ReadInto offset past end: err=%v", err)
	}
	if _, err := b.PeekInto(dst, -1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("PeekInto negative offset: err=%v", err)
	}
	if n, err := b.ReadInto(dst, 4); err != nil || n != 0 {
		t.Fatalf("ReadInto at len(dst) = %d, %v; want 0, nil", n, err)
	}
}

func TestBuffer_ReadIntoPartial(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 16})
	b.Write([]byte("abcdefgh"))

	dst := make([]byte, 5)
	n, err := b.ReadInto(dst, 2)
	if err != nil || n != 3 {
		t.Fatalf("ReadInto = %d, %v; want 3", n, err)
	}
	if diff := cmp.Diff([]byte{0, 0, 'a', 'b', 'c'}, dst); diff != "" {
		t.Fatalf("dst mismatch:\n%s", diff)
	}
	if b.Readable() != 5 {
		t.Fatalf("readable=%d, want 5", b.Readable())
	}

	peek := make([]byte, 8)
	n, _ = b.PeekInto(peek, 0)
	if string(peek[:n]) != "defgh" || b.Readable() != 5 {
		t.Fatalf("PeekInto = %q, readable=%d", peek[:n], b.Readable())
	}
}

// Data written across the end of the backing array reads back in order.
func TestBuffer_WrapAround(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 8})
	b.Write([]byte("012345"))
	got := make([]byte, 4)
	if n, _ := b.ReadInto(got, 0); string(got[:n]) != "0123" {
		t.Fatalf("first read %q", got[:n])
	}

	if n := b.Write([]byte("abcdef")); n != 6 {
		t.Fatalf("wrapping write = %d, want 6", n)
	}
	if got := string(b.Read()); got != "45abcdef" {
		t.Fatalf("Read = %q, want %q", got, "45abcdef")
	}
}

// Repeated fill/drain cycles keep reusing the same backing array.
func TestBuffer_ReuseWithoutRealloc(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 32})
	backing, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	chunk := bytes.Repeat([]byte{0xab}, 20)
	for i := 0; i < 100; i++ {
		if n := b.Write(chunk); n != len(chunk) {
			t.Fatalf("cycle %d: wrote %d", i, n)
		}
		if got := b.Read(); !bytes.Equal(got, chunk) {
			t.Fatalf("cycle %d: read mismatch", i)
		}
		if b.Readable() != 0 || b.Writable() != b.Capacity() || b.Capacity() != 32 {
			t.Fatalf("cycle %d: counters drifted", i)
		}
	}

	again, _ := b.Bytes()
	if &again[0] != &backing[0] {
		t.Fatal("backing array was reallocated")
	}
}

func TestBuffer_BytesHidden(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 4, HideBuffer: true})
	if _, err := b.Bytes(); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err=%v, want ErrAccessDenied", err)
	}
	b.Write([]byte{1})
	b.Flush()
	if _, err := b.Bytes(); !errors.Is(err, ErrAccessDenied) {
		t.Fatal("exposure setting must survive Flush")
	}
}

func TestBuffer_FlushAndClose(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 8})
	b.Write([]byte("hello"))

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal("Close must be idempotent")
	}
	if b.Readable() != 0 || b.Writable() != 8 {
		t.Fatal("Close must reset the buffer")
	}
	if n := b.Write([]byte("again")); n != 5 || string(b.Read()) != "again" {
		t.Fatal("buffer must stay usable after Close")
	}
}

func TestBuffer_SyncRootStable(t *testing.T) {
	t.Parallel()

	a, b := New(Options{}), New(Options{})
	if a.SyncRoot() != a.SyncRoot() {
		t.Fatal("SyncRoot must be stable")
	}
	if a.SyncRoot() == b.SyncRoot() {
		t.Fatal("distinct buffers must have distinct tokens")
	}
}

func TestBuffer_Discard(t *testing.T) {
	t.Parallel()

	b := New(Options{MinCapacity: 8})
	b.Write([]byte("abcdef"))
	if n := b.Discard(4); n != 4 {
		t.Fatalf("Discard = %d", n)
	}
	if n := b.Discard(10); n != 2 {
		t.Fatalf("Discard beyond readable = %d, want 2", n)
	}
	if n := b.Discard(-1); n != 0 || b.Readable() != 0 {
		t.Fatal("negative Discard must be a no-op")
	}
}
