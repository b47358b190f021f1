package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

type constSource struct {
	v        float32
	finished bool
}

func (s *constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.v
	}
}

func (s *constSource) Finished() bool { return s.finished }

func sampleAt(p []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
}

func TestStreamReaderEncodesFrames(t *testing.T) {
	r := NewStreamReader(&constSource{v: 0.5})
	r.SetGain(0.5)
	p := make([]byte, 3*bytesPerFrame+3)
	n, err := r.Read(p)
	if err != nil || n != 3*bytesPerFrame {
		t.Fatalf("Read = %d, %v", n, err)
	}
	for i := 0; i < 6; i++ {
		if got := sampleAt(p, i); got != 0.25 {
			t.Fatalf("sample %d = %v", i, got)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := NewStreamReader(&constSource{v: 1})
	if n, err := r.Read(make([]byte, 7)); n != 0 || err != nil {
		t.Fatalf("Read = %d, %v", n, err)
	}
}

func TestStreamReaderEOF(t *testing.T) {
	src := &constSource{v: 1}
	r := NewStreamReader(src)
	src.finished = true
	if n, err := r.Read(make([]byte, 16)); n != 16 || err != io.EOF {
		t.Fatalf("finished Read = %d, %v", n, err)
	}

	r = NewStreamReader(&constSource{v: 1})
	_ = r.Close()
	if n, err := r.Read(make([]byte, 16)); n != 0 || err != io.EOF {
		t.Fatalf("closed Read = %d, %v", n, err)
	}
}

func TestSetGainClampsNegative(t *testing.T) {
	r := NewStreamReader(&constSource{})
	r.SetGain(-2)
	if r.Gain() != 0 {
		t.Fatalf("gain = %v", r.Gain())
	}
}
