package main

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"gones/internal/bus"
	"gones/internal/input"
	"gones/internal/word"
)

const (
	nesWidth  = 256
	nesHeight = 240
	gameScale = 3
)

// ebitengineFrontend drives the system one frame per Update call, presents
// the PPU's completed frame via Draw, and forwards the APU's samples into
// an ebiten audio player through a small ring buffer.
type ebitengineFrontend struct {
	sys *bus.System

	frameImg    *ebiten.Image
	imageBuffer *image.RGBA

	pad1, pad2 *input.StaticSource

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	ring        *sampleRing

	quit bool
}

func newFrontend(sys *bus.System, sampleRate int) *ebitengineFrontend {
	f := &ebitengineFrontend{
		sys:         sys,
		frameImg:    ebiten.NewImage(nesWidth, nesHeight),
		imageBuffer: image.NewRGBA(image.Rect(0, 0, nesWidth, nesHeight)),
		pad1:        sys.Pad1Source(),
		pad2:        sys.Pad2Source(),
		ring:        newSampleRing(sampleRate / 2),
	}

	sys.SetRenderer(f)
	sys.SetAudioSink(f)

	f.audioCtx = audio.NewContext(sampleRate)
	player, err := f.audioCtx.NewPlayer(f.ring)
	if err == nil {
		f.audioPlayer = player
		f.audioPlayer.Play()
	}

	return f
}

// Frame implements ppu.Renderer.
func (f *ebitengineFrontend) Frame(buf *[256 * 240]uint32) {
	img := f.imageBuffer
	for y := 0; y < nesHeight; y++ {
		for x := 0; x < nesWidth; x++ {
			px := buf[y*nesWidth+x]
			r := uint8(px >> 16)
			g := uint8(px >> 8)
			b := uint8(px)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	f.frameImg.WritePixels(img.Pix)
}

// Sample implements apu.Sink: one mixed sample per CPU cycle's worth of APU
// output, pushed into the ring buffer the audio player reads from.
func (f *ebitengineFrontend) Sample(v float32) {
	f.ring.push(v)
}

func (f *ebitengineFrontend) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		f.quit = true
	}

	f.pad1.Set(pollButtons(player1Keys))
	f.pad2.Set(pollButtons(player2Keys))

	f.sys.RunFrame()
	return nil
}

func (f *ebitengineFrontend) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(gameScale, gameScale)
	screen.DrawImage(f.frameImg, op)
}

func (f *ebitengineFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth * gameScale, nesHeight * gameScale
}

var player1Keys = map[ebiten.Key]input.Button{
	ebiten.KeyJ:          input.ButtonA,
	ebiten.KeyK:          input.ButtonB,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeySpace:      input.ButtonSelect,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

// player2Keys is left empty: a second physical controller has no natural
// keyboard mapping without stealing keys from player one, and gamepad
// support is out of scope for this frontend.
var player2Keys = map[ebiten.Key]input.Button{}

func pollButtons(mapping map[ebiten.Key]input.Button) word.DataWord {
	var mask word.DataWord
	for key, button := range mapping {
		if ebiten.IsKeyPressed(key) {
			mask |= word.DataWord(button)
		}
	}
	return mask
}

// sampleRing is a small lock-protected circular buffer of 16-bit stereo PCM
// samples satisfying io.Reader for ebiten's audio player. Reads past the
// written tail return silence rather than blocking, so a slow frontend
// never stalls the emulation loop feeding it.
type sampleRing struct {
	mu   sync.Mutex
	buf  []int16
	r, w int
	n    int
}

func newSampleRing(capacitySamples int) *sampleRing {
	return &sampleRing{buf: make([]int16, capacitySamples*2)}
}

func (s *sampleRing) push(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := int16(v * 32767)
	size := len(s.buf)
	for _, c := range [2]int16{sample, sample} {
		s.buf[s.w] = c
		s.w = (s.w + 1) % size
		if s.n < size {
			s.n++
		} else {
			s.r = (s.r + 1) % size
		}
	}
}

func (s *sampleRing) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := len(p) / 2
	avail := s.n
	if samples > avail {
		samples = avail
	}

	for i := 0; i < samples; i++ {
		v := s.buf[s.r]
		p[i*2] = byte(v)
		p[i*2+1] = byte(v >> 8)
		s.r = (s.r + 1) % len(s.buf)
		s.n--
	}
	for i := samples * 2; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
