// Package ring provides Buffer, a fixed-capacity circular byte buffer.
//
// Capacity is rounded up to a power of two so that positions wrap with a
// mask. The backing array is allocated once in New and reused for the whole
// lifetime of the buffer: writing and draining any volume of data never
// reallocates.
//
// Writes never fail because the buffer is full. A write copies as many bytes
// as fit and reports that count, which is 0 when nothing fits:
//
//	b := ring.New(ring.Options{MinCapacity: 12}) // Capacity() == 16
//	n := b.Write([]byte{1, 2, 3, 4, 5})          // n == 5, Writable() == 11
//	p := b.Peek()                                // {1,2,3,4,5}, nothing consumed
//	p = b.Read()                                 // {1,2,3,4,5}, Readable() == 0
//
// A Buffer performs no locking. SyncRoot returns a stable token that the
// owner may use to key its own mutual exclusion when a producer and a
// consumer share the buffer.
package ring
