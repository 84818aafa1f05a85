package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"intake/internal/config"
	"intake/internal/intake"
	"intake/pkg/cart"
	"intake/pkg/catalog"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type keystroke struct {
	ch  rune
	err error
}

// readRunes delivers the runes of r until it fails or ctx is done. The
// reader goroutine stays blocked on r after ctx is done; it ends with the
// process or when r is closed.
func readRunes(ctx context.Context, r io.Reader) <-chan keystroke {
	out := make(chan keystroke)
	go func() {
		defer close(out)
		reader := bufio.NewReader(r)
		for {
			ch, _, err := reader.ReadRune()
			select {
			case out <- keystroke{ch: ch, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	return out
}

// runWedge feeds r rune by rune into an Input as a keyboard-wedge scanner
// would type into a focused field. CR or LF submits the field. The field is
// emptied after every lookup, including auto-submitted bursts, so the next
// scan starts from scratch. It returns when r is exhausted or ctx is done.
func runWedge(ctx context.Context, r io.Reader, in *intake.Input) error {
	var field []rune

	// syncField drops what the input already dispatched on its own.
	syncField := func() {
		if len(field) > 0 && in.State().Buffer == "" {
			field = field[:0]
		}
	}

	keys := readRunes(ctx, r)
	for {
		var key keystroke
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			key = k
		}

		syncField()

		if errors.Is(key.err, io.EOF) {
			if len(field) > 0 {
				in.Submit(ctx, string(field))
			}

			return nil
		}
		if key.err != nil {
			return fmt.Errorf("could not read input: %w", key.err)
		}

		if key.ch == '\r' || key.ch == '\n' {
			if len(field) > 0 {
				in.Submit(ctx, string(field))
				field = field[:0]
			}

			continue
		}

		field = append(field, key.ch)
		in.Change(string(field), time.Now())
	}
}

func printResolution(w io.Writer, c *cart.Cart, res domain.ResolutionResult) {
	if !res.IsFound() {
		_, _ = fmt.Fprintf(w, "%-8s %-20s not found\n", res.Source, res.Code)

		return
	}

	totals := c.Totals()
	_, _ = fmt.Fprintf(w, "%-8s %-20s %s  %s  (total %s)\n",
		res.Source, res.Code, res.Entry.Name, res.Entry.Price.StringFixed(2), totals.Total.StringFixed(2))
}

func wedgeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wedge",
		Short: "Runs a console terminal reading a keyboard-wedge scanner from stdin",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			cat := catalog.NewMemory()
			if _, err := cat.Refresh(ctx, strg); err != nil {
				logger.Fatal(ctx, "could not load catalog", zap.Error(err))
			}

			opts := intake.NewTerminalOptions(cfg)
			c := cart.New(opts.TaxRate)
			out := cmd.OutOrStdout()

			dispatcher := intake.NewDispatcher(cat, func(_ context.Context, res domain.ResolutionResult) {
				if res.IsFound() {
					c.Add(res.Entry, decimal.NewFromInt(1))
				}
				printResolution(out, c, res)
			}, intake.DispatcherOptions{
				SoundsEnabled: opts.SoundsEnabled,
				Tone:          newToneEmitter(cfg),
			})

			input := intake.NewInput(ctx, dispatcher.Resolve, opts.Input, nil)
			defer input.Close()

			_, _ = fmt.Fprintf(out, "%d products loaded, scan away\n", cat.Len())
			if err := runWedge(ctx, cmd.InOrStdin(), input); err != nil {
				logger.Error(ctx, "wedge stopped", zap.Error(err))
			}
		},
	}

	return cmd
}
