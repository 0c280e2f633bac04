package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches with 0.75in margins
const (
	a4Width    = 8.27
	a4Height   = 11.69
	pageMargin = 0.75
)

// chromeCandidates are looked up on PATH when no executable is configured
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// FindChrome returns the Chrome executable to use. A configured path must
// exist; otherwise the usual executable names are searched on PATH.
func FindChrome(configured string) (string, bool) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, true
		}
		return "", false
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// PDFRenderer prints HTML to PDF with a headless Chrome
type PDFRenderer struct {
	execPath string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPDFRenderer creates a renderer for the Chrome at execPath
func NewPDFRenderer(execPath string, timeout time.Duration, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{
		execPath: execPath,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "pdf_renderer")),
	}
}

// Render loads html into a fresh browser tab and prints it on A4 paper
// with backgrounds. Each call starts and stops its own browser.
func (r *PDFRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.execPath),
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(pageMargin).
				WithMarginRight(pageMargin).
				WithMarginBottom(pageMargin).
				WithMarginLeft(pageMargin).
				WithPrintBackground(true).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}

	r.logger.Debug("pdf rendered",
		slog.Int("html_bytes", len(html)),
		slog.Int("pdf_bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return pdf, nil
}
