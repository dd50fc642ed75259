package backdrop

import "image"

// Option configures a Blurrer during creation.
// Use functional options to customize Blurrer behavior.
//
// Example:
//
//	// Default parameters, software or registered GPU blur
//	b := backdrop.NewBlurrer()
//
//	// Quarter-resolution blur with a dark tint
//	b := backdrop.NewBlurrer(
//	    backdrop.WithRadius(12),
//	    backdrop.WithSampling(4),
//	    backdrop.WithTint(backdrop.ARGB(0x66, 0, 0, 0)),
//	)
type Option func(*blurrerOptions)

// blurrerOptions holds optional configuration for Blurrer creation.
type blurrerOptions struct {
	params  Params
	workers int
	accel   GPUAccelerator
	noAccel bool
	async   bool
}

// defaultOptions returns the default blurrer options.
func defaultOptions() blurrerOptions {
	return blurrerOptions{
		params:  DefaultParams(),
		workers: 0, // GOMAXPROCS
		accel:   nil, // Falls back to the registered accelerator
	}
}

// WithParams replaces all blur parameters at once.
func WithParams(p Params) Option {
	return func(o *blurrerOptions) {
		o.params = p
	}
}

// WithRadius sets the blur radius.
func WithRadius(r int) Option {
	return func(o *blurrerOptions) {
		o.params.Radius = r
	}
}

// WithSampling sets the downscale factor applied before blurring.
func WithSampling(s int) Option {
	return func(o *blurrerOptions) {
		o.params.Sampling = s
	}
}

// WithTint sets the overlay color composited before blurring.
func WithTint(c Color) Option {
	return func(o *blurrerOptions) {
		o.params.Tint = c
	}
}

// WithExcluded sets the rectangle that stays sharp.
func WithExcluded(r image.Rectangle) Option {
	return func(o *blurrerOptions) {
		o.params.Excluded = r
	}
}

// WithSize sets the output size. Zero keeps the source size.
func WithSize(width, height int) Option {
	return func(o *blurrerOptions) {
		o.params.Width = width
		o.params.Height = height
	}
}

// WithInterpolation sets the rescaling filter.
func WithInterpolation(m Interpolation) Option {
	return func(o *blurrerOptions) {
		o.params.Interpolation = m
	}
}

// WithWorkers bounds the number of goroutines used by the software blur.
// Zero uses GOMAXPROCS; one runs both passes on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *blurrerOptions) {
		o.workers = n
	}
}

// WithAccelerator sets the hardware fast path for this Blurrer, overriding
// the globally registered one.
//
// Example:
//
//	b := backdrop.NewBlurrer(backdrop.WithAccelerator(myAccel))
func WithAccelerator(a GPUAccelerator) Option {
	return func(o *blurrerOptions) {
		o.accel = a
		o.noAccel = false
	}
}

// WithoutAccelerator forces the software blur.
func WithoutAccelerator() Option {
	return func(o *blurrerOptions) {
		o.accel = nil
		o.noAccel = true
	}
}

// WithAsync marks the Blurrer for background execution: Submit runs the
// blur on its own goroutine instead of the caller's.
func WithAsync(async bool) Option {
	return func(o *blurrerOptions) {
		o.async = async
	}
}
