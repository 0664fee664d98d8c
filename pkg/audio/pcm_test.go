package audio

import (
	"reflect"
	"testing"
)

func TestPCMRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}
	if got := BytesToInt16(Int16ToBytes(samples)); !reflect.DeepEqual(got, samples) {
		t.Errorf("round trip = %v, want %v", got, samples)
	}
}

func TestBytesToInt16OddLength(t *testing.T) {
	// A trailing odd byte is dropped, not misread.
	if got := BytesToInt16([]byte{0x01, 0x00, 0xff}); len(got) != 1 || got[0] != 1 {
		t.Errorf("samples = %v, want [1]", got)
	}
}

func TestResample(t *testing.T) {
	t.Run("same rate passes through", func(t *testing.T) {
		samples := []int16{1, 2, 3}
		if got := Resample(samples, 24000, 24000); !reflect.DeepEqual(got, samples) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("upsample doubles length", func(t *testing.T) {
		samples := []int16{0, 100, 200, 300}
		got := Resample(samples, 24000, 48000)
		if len(got) != 8 {
			t.Fatalf("len = %d, want 8", len(got))
		}
		// Interpolated midpoints sit between neighbors.
		if got[0] != 0 || got[1] != 50 || got[2] != 100 {
			t.Errorf("head = %v", got[:3])
		}
	})

	t.Run("downsample halves length", func(t *testing.T) {
		samples := make([]int16, 480)
		if got := Resample(samples, 48000, 24000); len(got) != 240 {
			t.Errorf("len = %d, want 240", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Resample(nil, 16000, 48000); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
