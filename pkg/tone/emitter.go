package tone

import (
	"bytes"
	"context"
	"intake/pkg/logger"
	"io"
	"os/exec"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Nop discards every cue. It stands in for terminals without audio.
type Nop struct{}

func (Nop) Emit(context.Context, Cue) error { return nil }

// Bell rings the terminal bell: once for success, twice for any other cue.
type Bell struct {
	mu sync.Mutex
	W  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{W: w}
}

func (b *Bell) Emit(_ context.Context, cue Cue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	seq := "\a"
	if cue.Name != Success.Name {
		seq = "\a\a"
	}
	if _, err := io.WriteString(b.W, seq); err != nil {
		return errors.Wrap(err, "ring bell")
	}

	return nil
}

// Command renders the cue as WAV and pipes it into an external player, for
// example "aplay -q -" or "paplay". The player runs in the background.
type Command struct {
	Path       string
	Args       []string
	SampleRate int
}

func (c Command) Emit(ctx context.Context, cue Cue) error {
	if c.Path == "" {
		return errors.New("no player command configured")
	}
	rate := c.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}

	var buf bytes.Buffer
	if err := WriteWAV(&buf, rate, cue.Render(rate)); err != nil {
		return errors.Wrap(err, "render cue")
	}

	// not bound to ctx: the cue has to outlive the request that triggered it
	cmd := exec.Command(c.Path, c.Args...) //nolint: gosec
	cmd.Stdin = &buf
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start player %q", c.Path)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug(ctx, "audio player exited with error",
				zap.String("cue", cue.Name), zap.Error(err))
		}
	}()

	return nil
}
