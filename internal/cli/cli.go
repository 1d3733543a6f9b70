// Package cli provides one-shot terminal commands that run without opening
// any window.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/state"
)

// CLI runs commands against a settings store.
type CLI struct {
	settings *settings.Store
	fetcher  balance.Fetcher
	locale   language.Tag
	out      io.Writer
}

// New creates a CLI writing to out.
func New(store *settings.Store, fetcher balance.Fetcher, locale language.Tag, out io.Writer) *CLI {
	return &CLI{settings: store, fetcher: fetcher, locale: locale, out: out}
}

// ShowSettings prints the settings and their derived paths as YAML.
func (c *CLI) ShowSettings() error {
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(c.settings.Get()); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}

// Fetch runs a single polling cycle and prints the card. The fetch error is
// returned after the error panel text has been printed.
func (c *CLI) Fetch(ctx context.Context) error {
	cfg := c.settings.Settings()
	endpoint := cfg.Endpoint()

	rec, fetchErr := c.fetcher.Fetch(ctx, endpoint)
	var store state.Store
	store.Update(1, rec, fetchErr, time.Now())

	v, err := render.Compute(render.Input{
		Snapshot: store.Snapshot(),
		Settings: cfg,
		Locale:   c.locale,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	switch v.Kind {
	case render.KindError:
		fmt.Fprintf(c.out, "%s\n", v.Message)
		return fetchErr
	case render.KindCard:
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REPRESENTATIVE\tAMOUNT\tAS OF")
		fmt.Fprintln(w, "--------------\t------\t-----")
		fmt.Fprintf(w, "%s\t%s %s\t%s\n", v.Card.Identity, v.Card.Amount, v.Card.Currency, v.Card.AsOf)
		return w.Flush()
	default:
		return errors.New("no result")
	}
}
