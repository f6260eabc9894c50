// Package render turns plain text into a PNG "code card" using a pooled
// headless browser.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/laodeai/config"
	"github.com/use-agent/laodeai/models"
)

// Renderer owns the browser process and a pool of reusable pages.
// It is safe for concurrent use.
type Renderer struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	maxPages    int
	timeout     time.Duration
	ledger      *pageLedger
	activePages atomic.Int32
}

// New launches the browser described by cfg.
func New(cfg config.RenderConfig) (*Renderer, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("hide-scrollbars"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("render: launch browser: %w", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect to browser: %w", err)
	}

	maxPages := cfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	slog.Info("page pool created", "maxPages", maxPages)

	return &Renderer{
		browser:  browser,
		pagePool: rod.NewPagePool(maxPages),
		maxPages: maxPages,
		timeout:  timeout,
		ledger:   newPageLedger(),
	}, nil
}

// Render draws text (and an optional secondary footer line) as a PNG.
func (r *Renderer) Render(ctx context.Context, text, secondary string) ([]byte, error) {
	doc, err := Document(text, secondary)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.activePages.Add(1)
	defer r.activePages.Add(-1)

	page, err := r.pagePool.Get(func() (*rod.Page, error) {
		return r.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, fmt.Errorf("render: acquire page: %w", err)
	}

	// A page that failed mid-render or is worn out is closed and its pool
	// slot freed so the next Get creates a fresh one.
	healthy := false
	defer func() {
		if healthy && !r.ledger.used(page) {
			r.pagePool.Put(page)
			return
		}
		r.ledger.forget(page)
		if closeErr := page.Close(); closeErr != nil {
			slog.Debug("render: close failed page", "error", closeErr)
		}
		r.pagePool.Put(nil)
	}()

	p := page.Context(ctx)
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cardWidth,
		Height:            600,
		DeviceScaleFactor: 2,
	}); err != nil {
		return nil, fmt.Errorf("render: set viewport: %w", err)
	}
	if err := p.SetDocumentContent(doc); err != nil {
		return nil, fmt.Errorf("render: set content: %w", err)
	}
	card, err := p.Element("#card")
	if err != nil {
		return nil, fmt.Errorf("render: find card: %w", err)
	}
	png, err := card.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("render: screenshot: %w", err)
	}

	healthy = true
	return png, nil
}

// Stats returns a snapshot of the pool's current state.
func (r *Renderer) Stats() models.RenderStats {
	return models.RenderStats{
		MaxPages:    r.maxPages,
		ActivePages: int(r.activePages.Load()),
	}
}

// Close drains the page pool and kills the browser process.
func (r *Renderer) Close() error {
	slog.Info("renderer shutting down: draining page pool")
	r.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	return r.browser.Close()
}
