package scoresheet

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/cbegin/scoresheet-go/internal/midiout"
	intscore "github.com/cbegin/scoresheet-go/internal/score"
	intseq "github.com/cbegin/scoresheet-go/internal/sequencer"
	intsynth "github.com/cbegin/scoresheet-go/internal/synth"
)

// Offline renders skip the startup delay and keep a short tail so release
// envelopes ring out.
const offlineTail = time.Second

// encodeTracks encodes every track of sc against sink. All tracks share one
// channel allocator.
func encodeTracks(sc *intscore.Score, sink intseq.Sink, resolver intseq.InstrumentResolver, logger *slog.Logger) ([][]intseq.Pair, error) {
	enc := intseq.NewEncoder(sink, resolver, intseq.NewChannelAllocator(), logger)
	out := make([][]intseq.Pair, len(sc.Tracks))
	for i, tr := range sc.Tracks {
		pairs, err := enc.Encode(tr)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
		out[i] = pairs
	}
	return out, nil
}

// RenderMIDI writes sc as a Standard MIDI File with General MIDI programs.
// It returns the length of the rendered timeline.
func RenderMIDI(sc *intscore.Score, w io.Writer) (time.Duration, error) {
	rec := midiout.NewRecorder()
	rec.Seek(0)
	tracks, err := encodeTracks(sc, rec, midiout.GeneralMIDI(), nil)
	if err != nil {
		return 0, err
	}
	end, err := intseq.Replay(tracks, 0, offlineTail, rec.Seek)
	if err != nil {
		return 0, err
	}
	if _, err := rec.WriteTo(w); err != nil {
		return 0, err
	}
	return end, nil
}

// RenderSamples plays sc through sf without real time and returns the
// interleaved stereo output.
func RenderSamples(sc *intscore.Score, sf *intsynth.SoundFont) ([]float32, error) {
	tracks, err := encodeTracks(sc, sf, sf, nil)
	if err != nil {
		return nil, err
	}
	rate := float64(sf.SampleRate())
	var out []float32
	_, err = intseq.Replay(tracks, 0, offlineTail, func(at time.Duration) {
		out = sf.RenderUntil(out, int(math.Round(at.Seconds()*rate)))
	})
	if err != nil {
		return nil, err
	}
	sf.Silence()
	return out, nil
}

func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
