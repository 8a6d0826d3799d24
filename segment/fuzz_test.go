package segment

import (
	"bytes"
	"testing"
)

// Random positioned writes must match a flat byte-slice model.
func FuzzStore_WriteModel(f *testing.F) {
	f.Add([]byte("hello"), uint16(0), uint16(13), uint8(3), uint8(5))
	f.Add([]byte{}, uint16(40), uint16(0), uint8(1), uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, pos1, pos2 uint16, first, growth uint8) {
		if len(data) > 1024 {
			data = data[:1024]
		}
		s := NewGrowing(int(first)%16+1, int(growth)%16+1)
		var model []byte

		for _, pos := range []int{int(pos1) % 2048, int(pos2) % 2048} {
			if err := s.Write(data, 0, len(data), int64(pos)); err != nil {
				t.Fatal(err)
			}
			if end := pos + len(data); end > len(model) {
				model = append(model, make([]byte, end-len(model))...)
			}
			copy(model[pos:], data)
		}

		if s.Len() != int64(len(model)) {
			t.Fatalf("Len = %d, want %d", s.Len(), len(model))
		}
		got := make([]byte, len(model))
		if _, err := s.Read(got, 0, len(got)); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, model) {
			t.Fatal("content diverged from model")
		}
	})
}
