package backdrop

import (
	"image"
	"sync"

	"github.com/gogpu/backdrop/internal/blend"
	"github.com/gogpu/backdrop/internal/parallel"
	"github.com/gogpu/backdrop/internal/resample"
	"github.com/gogpu/backdrop/internal/stackblur"
)

// Blurrer runs the backdrop pipeline:
//
//  1. scale the source to the working size (output size / sampling)
//  2. composite the tint source-atop
//  3. blur, on the GPU accelerator if one accepts the job, else in software
//  4. scale back to the output size
//  5. restore the excluded rectangle from the untinted source
//
// A Blurrer is safe for concurrent use. Close releases its worker pool.
type Blurrer struct {
	opts blurrerOptions

	// inflight is read-held by every Blur and write-held by Close.
	inflight sync.RWMutex

	mu     sync.Mutex
	pool   *parallel.WorkerPool
	closed bool
}

// NewBlurrer creates a Blurrer with the given options.
func NewBlurrer(opts ...Option) *Blurrer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Blurrer{opts: o}
}

// Params returns the parameters the Blurrer was configured with.
func (b *Blurrer) Params() Params {
	return b.opts.params
}

// Async reports whether Submit runs in the background.
func (b *Blurrer) Async() bool {
	return b.opts.async
}

// Close releases the worker pool, waiting for blurs in flight to finish.
// A closed Blurrer still works, running the software blur on the calling
// goroutine.
func (b *Blurrer) Close() {
	b.inflight.Lock()
	defer b.inflight.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

// Blur returns a blurred copy of src. src is never modified.
//
// A nil or zero-area source, or a working size that rounds down to zero,
// yields (nil, nil): there is nothing to blur. Errors are returned only for
// invalid parameters.
func (b *Blurrer) Blur(src *Pixmap) (*Pixmap, error) {
	out, _, err := b.blurWithEngine(src)
	return out, err
}

// blurWithEngine is Blur that also names the engine that ran the blur pass.
func (b *Blurrer) blurWithEngine(src *Pixmap) (*Pixmap, string, error) {
	b.inflight.RLock()
	defer b.inflight.RUnlock()

	p := b.opts.params
	if err := p.Validate(); err != nil {
		return nil, "", err
	}
	if src.Empty() {
		Logger().Debug("backdrop: empty source, nothing to blur")
		return nil, "", nil
	}

	outW, outH := p.outputSize(src)
	s := p.sampling()
	w, h := outW/s, outH/s
	if w == 0 || h == 0 {
		Logger().Debug("backdrop: working size is empty",
			"output", image.Pt(outW, outH), "sampling", s)
		return nil, "", nil
	}

	radius := p.Radius
	if radius > MaxRadius {
		Logger().Warn("backdrop: radius clamped", "radius", radius, "max", MaxRadius)
		radius = MaxRadius
	}

	work := NewPixmap(w, h)
	resample.Scale(work.pix, w, h, src.pix, src.width, src.height, p.Interpolation)

	blend.Tint(work.pix, uint32(p.Tint))
	engine := b.blur(work, radius)

	out := work
	if w != outW || h != outH {
		out = NewPixmap(outW, outH)
		resample.Scale(out.pix, outW, outH, work.pix, w, h, p.Interpolation)
	}

	if r := p.excludedRect(outW, outH); !r.Empty() {
		out.CopyRect(sharpSource(src, outW, outH, p.Interpolation), r)
	}
	return out, engine, nil
}

// sharpSource returns src at the output size, untinted and unblurred.
func sharpSource(src *Pixmap, w, h int, mode Interpolation) *Pixmap {
	if src.width == w && src.height == h {
		return src
	}
	sharp := NewPixmap(w, h)
	resample.Scale(sharp.pix, w, h, src.pix, src.width, src.height, mode)
	return sharp
}

// blur blurs work in place and returns the engine that did it, or "" for a
// zero radius. The accelerator gets one attempt on a scratch copy; any
// failure is followed by exactly one software pass.
func (b *Blurrer) blur(work *Pixmap, radius int) string {
	if radius < 1 {
		return ""
	}
	if a := b.accelerator(); a != nil {
		if b.blurHardware(a, work, radius) {
			return a.Name()
		}
	}
	b.blurSoftware(work, radius)
	return SoftwareEngine
}

func (b *Blurrer) blurHardware(a GPUAccelerator, work *Pixmap, radius int) bool {
	log := Logger()
	if !a.CanBlur(work.width, work.height, radius) {
		log.Debug("backdrop: accelerator declined",
			"accelerator", a.Name(), "width", work.width, "height", work.height, "radius", radius)
		return false
	}

	scratch := work.Clone()
	t := Target{Pix: scratch.pix, Width: scratch.width, Height: scratch.height}
	if err := a.Blur(t, radius); err != nil {
		log.Warn("backdrop: hardware blur failed, using software",
			"accelerator", a.Name(), "error", err)
		return false
	}

	copy(work.pix, scratch.pix)
	log.Debug("backdrop: blurred on accelerator",
		"accelerator", a.Name(), "width", work.width, "height", work.height, "radius", radius)
	return true
}

func (b *Blurrer) blurSoftware(work *Pixmap, radius int) {
	pix, w, h := work.pix, work.width, work.height
	exec := parallel.NewTiledExecutor(b.workerPool())
	exec.Run(
		h, func(y0, y1 int) { stackblur.HorizontalRows(pix, w, h, radius, y0, y1) },
		w, func(x0, x1 int) { stackblur.VerticalColumns(pix, w, h, radius, x0, x1) },
	)
	Logger().Debug("backdrop: blurred in software",
		"width", w, "height", h, "radius", radius, "workers", exec.Workers())
}

// accelerator resolves the fast path for this Blurrer.
func (b *Blurrer) accelerator() GPUAccelerator {
	if b.opts.noAccel {
		return nil
	}
	if b.opts.accel != nil {
		return b.opts.accel
	}
	return Accelerator()
}

// workerPool lazily creates the pool. It returns nil when the Blurrer is
// closed or configured for a single worker.
func (b *Blurrer) workerPool() *parallel.WorkerPool {
	if b.opts.workers == 1 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if b.pool == nil {
		b.pool = parallel.NewWorkerPool(b.opts.workers)
	}
	return b.pool
}

// Blur blurs src with p using a temporary Blurrer.
func Blur(src *Pixmap, p Params) (*Pixmap, error) {
	b := NewBlurrer(WithParams(p))
	defer b.Close()
	return b.Blur(src)
}

// BlurImage is Blur for standard library images. It returns nil when there
// is nothing to blur.
func BlurImage(img image.Image, p Params) (*image.NRGBA, error) {
	out, err := Blur(FromImage(img), p)
	if err != nil || out == nil {
		return nil, err
	}
	return out.ToNRGBA(), nil
}
