package lru

import "testing"

// Random op sequences must keep the map and list in 1:1 correspondence and
// never exceed capacity.
func FuzzCache_Ops(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7}, uint8(3))
	f.Add([]byte{9, 9, 9, 200, 201}, uint8(1))

	f.Fuzz(func(t *testing.T, ops []byte, capacity uint8) {
		c, err := New[byte, int](Options[byte, int]{Capacity: int(capacity)%8 + 1})
		if err != nil {
			t.Fatal(err)
		}
		for i, op := range ops {
			k := op & 0x0f
			switch op >> 6 {
			case 0, 1:
				_ = c.Add(k, i)
				if c.Keys()[0] != k {
					t.Fatal("added key must be MRU")
				}
			case 2:
				if _, ok, _ := c.TryGet(k); ok && c.Keys()[0] != k {
					t.Fatal("hit must promote to MRU")
				}
			case 3:
				_, _ = c.Remove(k)
				if c.Contains(k) {
					t.Fatal("removed key still resident")
				}
			}

			if c.Len() > c.Cap() {
				t.Fatalf("Len %d > Cap %d", c.Len(), c.Cap())
			}
			seen := map[byte]bool{}
			for key := range c.All() {
				if seen[key] || !c.Contains(key) {
					t.Fatal("list and map diverged")
				}
				seen[key] = true
			}
			if len(seen) != c.Len() {
				t.Fatalf("list has %d entries, map %d", len(seen), c.Len())
			}
		}
	})
}
