package domain

import "testing"

// FuzzParseSlotID checks that parsing never panics and that accepted IDs
// round-trip through String.
func FuzzParseSlotID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseSlotID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Fatal("nil slot id accepted")
		}
		again, err := ParseSlotID(id.String())
		if err != nil {
			t.Fatalf("round-trip failed: %v", err)
		}
		if again != id {
			t.Fatal("round-trip changed the id")
		}
	})
}
