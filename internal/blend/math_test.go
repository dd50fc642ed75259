package blend

import (
	"testing"
)

// TestDiv255 checks the rounding formula against exact integer math over
// the whole range produced by blending two channels.
func TestDiv255(t *testing.T) {
	for x := uint32(0); x <= 255*255; x++ {
		expected := (x + 127) / 255
		if got := div255(x); got != expected {
			t.Fatalf("div255(%d) = %d, want %d", x, got, expected)
		}
	}
}

func TestLerp255(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t uint32
		want    uint32
	}{
		{"t=0 keeps a", 37, 200, 0, 37},
		{"t=255 takes b", 37, 200, 255, 200},
		{"half way", 0, 255, 128, 128},
		{"same value", 99, 99, 77, 99},
		{"black to white quarter", 0, 255, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lerp255(tt.a, tt.b, tt.t); got != tt.want {
				t.Errorf("lerp255(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.t, got, tt.want)
			}
		})
	}
}

func TestPackUnpack(t *testing.T) {
	c := uint32(0x80112233)
	a, r, g, b := unpack(c)
	if a != 0x80 || r != 0x11 || g != 0x22 || b != 0x33 {
		t.Errorf("unpack(%#08x) = %x %x %x %x", c, a, r, g, b)
	}
	if got := pack(a, r, g, b); got != c {
		t.Errorf("pack = %#08x, want %#08x", got, c)
	}
}
