// Package sound plays the short click effects of the puzzle frontends.
package sound

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dh1tw/gosamplerate"
	"github.com/ebitengine/oto/v3"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	sampleRate = 44100
	channels   = 2
)

// Player owns the audio device and the click samples, stored as raw
// float32 LE frames ready for the device. A nil Player is valid and
// silent, which is how the frontends implement mute.
type Player struct {
	ctx     *oto.Context
	pickBuf []byte
	dropBuf []byte

	mu      sync.Mutex
	playing []*oto.Player
}

// NewPlayer opens the audio device and synthesizes the built-in clicks:
// a high blip on pickup, the same blip an octave down on release.
func NewPlayer() (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &Player{
		ctx:     ctx,
		pickBuf: floatBytes(clickWave(880)),
		dropBuf: floatBytes(clickWave(440)),
	}, nil
}

// LoadClick replaces the built-in clicks with the sample at path. The
// pickup click plays the sample as is, the release click an octave
// lower. WAV and MP3 are recognized.
func (p *Player) LoadClick(path string) error {
	if p == nil {
		return nil
	}
	samples, rate, err := decodeSample(path)
	if err != nil {
		return err
	}
	if rate != sampleRate {
		samples, err = resample(samples, float64(sampleRate)/float64(rate))
		if err != nil {
			return err
		}
	}
	lower, err := resample(samples, 2)
	if err != nil {
		return err
	}
	p.pickBuf = floatBytes(samples)
	p.dropBuf = floatBytes(lower)
	return nil
}

// Pick plays the pickup click. Safe on a nil Player.
func (p *Player) Pick() {
	if p == nil {
		return
	}
	p.play(p.pickBuf)
}

// Drop plays the release click. Safe on a nil Player.
func (p *Player) Drop() {
	if p == nil {
		return
	}
	p.play(p.dropBuf)
}

func (p *Player) play(buf []byte) {
	if len(buf) == 0 {
		return
	}
	pl := p.ctx.NewPlayer(bytes.NewReader(buf))
	pl.Play()
	p.mu.Lock()
	p.playing = append(p.playing, pl)
	p.mu.Unlock()
	p.reap()
}

// reap closes players that finished. Called on every play so the list
// stays short; clicks last well under a second.
func (p *Player) reap() {
	p.mu.Lock()
	defer p.mu.Unlock()
	alive := p.playing[:0]
	for _, pl := range p.playing {
		if pl.IsPlaying() {
			alive = append(alive, pl)
		} else {
			pl.Close()
		}
	}
	p.playing = alive
}

// Close stops all clicks. The oto context itself stays open until
// process exit; the library offers no way to close it.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pl := range p.playing {
		pl.Close()
	}
	p.playing = nil
}

func decodeSample(path string) ([]float32, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWav(path)
	case ".mp3":
		return decodeMp3(path)
	}
	return nil, 0, fmt.Errorf("unsupported sample format: %s", path)
}

func decodeWav(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("cannot decode %s: missing format", path)
	}
	if buf.Format.NumChannels > channels {
		return nil, 0, fmt.Errorf("%s: expected mono or stereo, got %d channels", path, buf.Format.NumChannels)
	}
	// 8-bit WAV stores unsigned samples, wider depths signed
	var offset int
	switch dec.BitDepth {
	case 8:
		offset = 128
	case 16, 24, 32:
	default:
		return nil, 0, fmt.Errorf("%s: unsupported bit depth %d", path, dec.BitDepth)
	}
	scale := float32(int(1) << (dec.BitDepth - 1))
	nch := buf.Format.NumChannels
	out := make([]float32, 0, channels*len(buf.Data)/nch)
	for i := 0; i+nch-1 < len(buf.Data); i += nch {
		l := float32(buf.Data[i]-offset) / scale
		r := l
		if nch == 2 {
			r = float32(buf.Data[i+1]-offset) / scale
		}
		out = append(out, l, r)
	}
	return out, buf.Format.SampleRate, nil
}

// decodeMp3 relies on go-mp3 always emitting 16-bit LE stereo.
func decodeMp3(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, err
	}
	out := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		s := int16(binary.LittleEndian.Uint16(data[i:]))
		out = append(out, float32(s)/32768)
	}
	return out, dec.SampleRate(), nil
}

func resample(samples []float32, ratio float64) ([]float32, error) {
	if !gosamplerate.IsValidRatio(ratio) {
		return nil, fmt.Errorf("invalid resample ratio: %f", ratio)
	}
	return gosamplerate.Simple(samples, ratio, channels, gosamplerate.SRC_SINC_FASTEST)
}

func floatBytes(samples []float32) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(s))
	}
	return buf
}
