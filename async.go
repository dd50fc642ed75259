package backdrop

import "context"

// Result is delivered by BlurAsync and Submit.
// Pixmap is nil when there was nothing to blur or Err is set.
type Result struct {
	Pixmap *Pixmap
	Err    error

	// Engine names what ran the blur pass: an accelerator's Name or
	// SoftwareEngine. It is empty when no blur pass ran.
	Engine string
}

// BlurAsync blurs src on a new goroutine. The returned channel receives
// exactly one Result and is then closed. src must not be modified until
// the result arrives.
//
// If ctx is done before the blur starts, the result carries ctx.Err().
// A blur that has started runs to completion.
func (b *Blurrer) BlurAsync(ctx context.Context, src *Pixmap) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- b.run(ctx, src)
	}()
	return ch
}

// Submit blurs src honoring the WithAsync flag: in the background when set,
// otherwise on the calling goroutine before Submit returns. Either way the
// result is read from the returned channel.
func (b *Blurrer) Submit(ctx context.Context, src *Pixmap) <-chan Result {
	if b.opts.async {
		return b.BlurAsync(ctx, src)
	}
	ch := make(chan Result, 1)
	ch <- b.run(ctx, src)
	close(ch)
	return ch
}

func (b *Blurrer) run(ctx context.Context, src *Pixmap) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	pm, engine, err := b.blurWithEngine(src)
	return Result{Pixmap: pm, Err: err, Engine: engine}
}
