// Package record captures rendered frames and writes them out as animated
// GIFs. The render loop only copies pixels; palette conversion and encoding
// happen on a background goroutine that owns those copies.
package record

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/ballsim/internal/dynamo"
)

const timeLayout = "2006-01-02 15-04-05"

// Recorder collects every Nth offered frame while active and saves the
// collected frames when toggled off.
type Recorder struct {
	mu        sync.Mutex
	pattern   string
	fps       int
	every     int
	count     int
	recording bool
	frames    []*image.RGBA

	wg      sync.WaitGroup
	now     func() time.Time
	onSaved func(path string, err error)
}

// New returns a recorder writing to pattern, where "{dt}" is replaced by
// the save time. fps is the render rate and every the capture interval.
func New(pattern string, fps, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{
		pattern: pattern,
		fps:     fps,
		every:   every,
		now:     time.Now,
	}
}

// OnSaved registers a callback invoked from the encoding goroutine after
// each save attempt.
func (r *Recorder) OnSaved(fn func(path string, err error)) {
	r.mu.Lock()
	r.onSaved = fn
	r.mu.Unlock()
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Toggle starts a recording, or stops the current one and saves it in the
// background.
func (r *Recorder) Toggle() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		r.recording = true
		r.count = 0
		return
	}
	r.stopLocked()
}

func (r *Recorder) stopLocked() {
	r.recording = false
	frames := r.frames
	r.frames = nil
	path := Path(r.pattern, r.now())
	delay := Delay(r.fps, r.every)
	onSaved := r.onSaved

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		paletted := make([]*image.Paletted, len(frames))
		for i, f := range frames {
			paletted[i] = Quantize(f)
		}
		err := Save(path, paletted, delay)
		if err != nil {
			log.Printf("[REC] save %s: %v", path, err)
		} else {
			log.Printf("[REC] saved %d frames to %s", len(frames), path)
		}
		if onSaved != nil {
			onSaved(path, err)
		}
	}()
}

// Offer is called once per rendered frame. grab is only invoked for frames
// that will be kept, and its result is copied before Offer returns. The copy
// keeps full colour; quantizing waits for the save.
func (r *Recorder) Offer(grab func() image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.count++
	if r.count < r.every {
		return
	}
	r.count = 0
	img := grab()
	if img == nil {
		return
	}
	r.frames = append(r.frames, copyRGBA(img))
}

// WithFlush returns a grab that runs flush first, for renderers that batch
// draw calls and must submit them before pixels can be read back.
func WithFlush(flush func(), grab func() image.Image) func() image.Image {
	return func() image.Image {
		flush()
		return grab()
	}
}

func copyRGBA(img image.Image) *image.RGBA {
	if src, ok := img.(*image.RGBA); ok {
		dst := *src
		dst.Pix = append([]uint8(nil), src.Pix...)
		return &dst
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// Frames returns how many frames the current recording holds.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Close stops an active recording and waits for pending saves until ctx
// is done.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.recording {
		r.stopLocked()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Path expands the "{dt}" placeholder of pattern with t.
func Path(pattern string, t time.Time) string {
	return strings.ReplaceAll(pattern, "{dt}", t.Format(timeLayout))
}

// Delay is the GIF frame delay in hundredths of a second for frames
// captured every Nth render at fps.
func Delay(fps, every int) int {
	if fps <= 0 {
		return 0
	}
	return 100 * every / fps
}

// Quantize copies img into a new paletted image.
func Quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}

// Save encodes frames as a looping GIF at path, creating parent directories.
func Save(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return dynamo.ErrNoFrames
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
