// Command backdrop blurs an image the way a frosted-glass backdrop would:
// optional downsample, tint, stack blur, upsample, with a sharp region
// left untouched.
//
// Usage:
//
//	backdrop -in photo.jpg -out blurred.png -radius 25 -sampling 2 -tint '#40ffffff'
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/backdrop"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	in, out string
	params  backdrop.Params
	workers int
	gpu     bool
	verbose bool
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.verbose {
		backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("backdrop: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	def := backdrop.DefaultParams()
	var (
		cfg      config
		tint     = fs.String("tint", "", "tint color as #RGB, #ARGB, #RRGGBB or #AARRGGBB")
		exclude  = fs.String("exclude", "", "sharp region as x0,y0,x1,y1 in output pixels")
		size     = fs.String("size", "", "output size as WxH (default: source size)")
		interp   = fs.String("interp", def.Interpolation.String(), "resampling: nearest, approx-bilinear, bilinear, catmull-rom")
		radius   = fs.Int("radius", def.Radius, "blur radius in working pixels")
		sampling = fs.Int("sampling", def.Sampling, "downsampling factor")
	)
	fs.StringVar(&cfg.in, "in", "", "input image (png, jpeg, bmp, tiff, webp)")
	fs.StringVar(&cfg.out, "out", "backdrop.png", "output PNG file")
	fs.IntVar(&cfg.workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	fs.BoolVar(&cfg.gpu, "gpu", true, "use the GPU blur when available")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.in == "" {
		return cfg, fmt.Errorf("missing -in")
	}

	p := def
	p.Radius = *radius
	p.Sampling = *sampling

	var err error
	if *tint != "" {
		if p.Tint, err = backdrop.ParseHex(*tint); err != nil {
			return cfg, err
		}
	}
	if *exclude != "" {
		if p.Excluded, err = parseRect(*exclude); err != nil {
			return cfg, err
		}
	}
	if *size != "" {
		if p.Width, p.Height, err = parseSize(*size); err != nil {
			return cfg, err
		}
	}
	if p.Interpolation, err = backdrop.ParseInterpolation(*interp); err != nil {
		return cfg, err
	}
	if err := p.Validate(); err != nil {
		return cfg, err
	}
	cfg.params = p
	return cfg, nil
}

func parseRect(s string) (image.Rectangle, error) {
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid rectangle %q: want x0,y0,x1,y1", s)
	}
	return image.Rect(x0, y0, x1, y1), nil
}

func parseSize(s string) (w, h int, err error) {
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	return w, h, nil
}

func run(ctx context.Context, cfg config) error {
	src, err := backdrop.LoadImage(cfg.in)
	if err != nil {
		return err
	}

	opts := []backdrop.Option{backdrop.WithParams(cfg.params), backdrop.WithAsync(true)}
	if cfg.workers > 0 {
		opts = append(opts, backdrop.WithWorkers(cfg.workers))
	}
	if !cfg.gpu {
		opts = append(opts, backdrop.WithoutAccelerator())
	}
	b := backdrop.NewBlurrer(opts...)

	start := time.Now()
	var res backdrop.Result
	select {
	case res = <-b.Submit(ctx, src):
		b.Close()
	case <-ctx.Done():
		// The blur cannot be interrupted; leave it to finish on its own.
		return ctx.Err()
	}
	if res.Err != nil {
		return res.Err
	}
	elapsed := time.Since(start)

	if res.Pixmap == nil {
		return fmt.Errorf("%s: nothing to blur", cfg.in)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := res.Pixmap.SavePNG(cfg.out); err != nil {
		return err
	}

	engine := res.Engine
	if engine == "" {
		engine = "no blur"
	}
	p := message.NewPrinter(language.English)
	p.Printf("%s: %dx%d, %d pixels, radius %d, sampling %d, %s in %v\n",
		cfg.out, res.Pixmap.Width(), res.Pixmap.Height(),
		res.Pixmap.Width()*res.Pixmap.Height(), cfg.params.Radius, cfg.params.Sampling,
		engine, elapsed.Round(time.Microsecond))
	return nil
}
