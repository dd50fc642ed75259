// Package backdrop blurs captured pixels for use as a frosted-glass
// backdrop.
//
// # Overview
//
// The blur is a stack blur: a separable sliding-window filter with a
// triangular kernel. It looks close to a Gaussian and costs O(1) per pixel
// regardless of radius. Around it sits a small pipeline that downsamples
// the source, overlays a tint, blurs, scales the result back up and keeps an
// optional rectangle sharp.
//
// # Quick Start
//
//	import "github.com/gogpu/backdrop"
//
//	src, err := backdrop.LoadImage("screen.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := backdrop.NewBlurrer(
//	    backdrop.WithRadius(20),
//	    backdrop.WithSampling(4),
//	    backdrop.WithTint(backdrop.ARGB(0x40, 0xff, 0xff, 0xff)),
//	)
//	defer b.Close()
//
//	out, err := b.Blur(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if out != nil { // nil: nothing to blur
//	    _ = out.SavePNG("backdrop.png")
//	}
//
// # Pixel Format
//
// A Pixmap stores one packed 0xAARRGGBB uint32 per pixel with straight
// alpha. Only the color channels are blurred; alpha passes through
// unchanged.
//
// # GPU Acceleration
//
// A hardware blur can be plugged in with RegisterAccelerator. The gpu
// sub-package registers a Vulkan compute implementation:
//
//	import _ "github.com/gogpu/backdrop/gpu"
//
// If the accelerator declines or fails, the software blur runs instead.
// Callers never observe the difference.
//
// # Concurrency
//
// The software blur splits each pass into row or column spans and runs
// them on a worker pool, with a barrier between the horizontal and the
// vertical pass. The output is identical for any worker count.
package backdrop

// Version is the current version of the library.
const Version = "0.1.0"
