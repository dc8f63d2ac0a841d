package eboekhouden

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"hour-sync/core/sync"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Selectors for the pages we drive. The remote application is UI-only, so
// these are the contract with it, fragile as that is.
const (
	selLoginUser     = `input[name="txtEmail"]`
	selLoginPassword = `input[name="txtWachtwoord"]`
	selLoginSubmit   = `input[name="submit1"]`
	selMainFrame     = `frame[name="mainframe"]`

	selYearRadio    = `input[type="radio"][value="jaar"]`
	selYearSelect   = `select#input-year`
	selOverviewNext = `button.form-submit`
	selExportIcon   = `app-icon[title="Exporteren naar Excel"]`

	selHoursDate        = `input[name="txtDatum"]`
	selHoursProject     = `input[name="txtProject"]`
	selHoursActivity    = `input[name="txtActiviteit"]`
	selHoursAmount      = `input[name="txtUren"]`
	selHoursDescription = `textarea[name="txtOmschrijving"]`
	xpathSaveButton     = `//button[contains(., "Opslaan")]`
)

// Client drives e-boekhouden.nl through a headless browser. It is the single
// remote collaborator: login, fetching the current hour registrations via
// the spreadsheet export, and submitting new registrations. One Client is
// one interactive session and must be used strictly sequentially.
type Client struct {
	cfg    Config
	logger *zap.Logger

	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc

	exportPath string
}

// New allocates a browser and returns an unauthenticated client.
// Call Login before anything else and Close when done.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, &UnavailableError{Op: "init", Err: errors.New("missing credentials")}
	}

	for _, dir := range []string{cfg.DownloadDir, cfg.ScreenshotDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	return &Client{
		cfg:         cfg,
		logger:      logger,
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Close releases the browser.
func (c *Client) Close() {
	c.cancelCtx()
	c.cancelAlloc()
}

// ExportPath returns the path of the last downloaded export file, empty if
// no export has been fetched yet. Used for archiving run artifacts.
func (c *Client) ExportPath() string {
	return c.exportPath
}

// Login authenticates the browser session.
func (c *Client) Login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.logger.Info("logging in to e-boekhouden")

	tctx, cancel := context.WithTimeout(c.browserCtx, c.timeout())
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(c.cfg.LoginURL),
		chromedp.WaitVisible(selLoginUser, chromedp.ByQuery),
		chromedp.SendKeys(selLoginUser, c.cfg.Username, chromedp.ByQuery),
		chromedp.SendKeys(selLoginPassword, c.cfg.Password, chromedp.ByQuery),
		chromedp.Click(selLoginSubmit, chromedp.ByQuery),
		// The post-login portal is a frameset; mainframe appearing means the
		// credentials were accepted.
		chromedp.WaitReady(selMainFrame, chromedp.ByQuery),
	)
	if err != nil {
		c.captureFailure("login")
		return &UnavailableError{Op: "login", Err: err}
	}

	c.logger.Info("login successful")
	return nil
}

// FetchEvents exports the hour overview for a year and parses it.
func (c *Client) FetchEvents(ctx context.Context, year int) ([]sync.RemoteEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := c.downloadExport(year)
	if err != nil {
		return nil, err
	}
	c.exportPath = path
	c.logger.Info("downloaded hours export", zap.String("path", path), zap.Int("year", year))

	return ParseExport(path, c.cfg.Columns)
}

// downloadExport drives the hour overview page to an Excel export and waits
// for the download to land in the configured directory.
func (c *Client) downloadExport(year int) (string, error) {
	timeout := time.Duration(c.cfg.DownloadTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tctx, cancel := context.WithTimeout(c.browserCtx, timeout)
	defer cancel()

	// The browser names the file by download GUID; completion arrives as a
	// progress event.
	done := make(chan string, 1)
	chromedp.ListenTarget(tctx, func(ev interface{}) {
		if e, ok := ev.(*browser.EventDownloadProgress); ok && e.State == browser.DownloadProgressStateCompleted {
			select {
			case done <- e.GUID:
			default:
			}
		}
	})

	err := chromedp.Run(tctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(c.cfg.DownloadDir).
			WithEventsEnabled(true),
		chromedp.Navigate(c.cfg.BaseURL+"/uren/overzicht"),
		chromedp.WaitVisible(selYearRadio, chromedp.ByQuery),
		chromedp.Click(selYearRadio, chromedp.ByQuery),
		chromedp.SetValue(selYearSelect, strconv.Itoa(year), chromedp.ByQuery),
		chromedp.Click(selOverviewNext, chromedp.ByQuery),
		chromedp.WaitVisible(selExportIcon, chromedp.ByQuery),
		chromedp.Click(selExportIcon, chromedp.ByQuery),
	)
	if err != nil {
		c.captureFailure("export")
		return "", &FormatError{Detail: "hours overview did not behave as expected", Err: err}
	}

	select {
	case guid := <-done:
		return filepath.Join(c.cfg.DownloadDir, guid), nil
	case <-tctx.Done():
		c.captureFailure("export_download")
		return "", &UnavailableError{Op: "export", Err: tctx.Err()}
	}
}

// SubmitEvent creates one hour registration remotely. The identifier marker
// is embedded in the description so the record can be matched on the next
// run; a created-at line records when this tool wrote it.
func (c *Client) SubmitEvent(ctx context.Context, ev sync.DatabaseEvent) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	description := ev.Description
	if !sync.HasMarker(description) {
		description = description + " " + sync.Marker(ev.ID)
	}
	description += "\n\nCreated at: " + time.Now().Format("2006-01-02 15:04:05")

	tctx, cancel := context.WithTimeout(c.browserCtx, c.timeout())
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(c.cfg.BaseURL+"/bh/urenregistratie_toevoegen.asp"),
		chromedp.WaitVisible(selHoursAmount, chromedp.ByQuery),
		chromedp.SendKeys(selHoursDate, ev.Start.Format("02-01-2006"), chromedp.ByQuery),
		chromedp.SendKeys(selHoursProject, ev.Project, chromedp.ByQuery),
		chromedp.SendKeys(selHoursActivity, ev.Activity, chromedp.ByQuery),
		chromedp.SendKeys(selHoursAmount, ev.Hours.String(), chromedp.ByQuery),
		chromedp.SendKeys(selHoursDescription, description, chromedp.ByQuery),
		chromedp.Click(xpathSaveButton),
		// Give the form time to round-trip; the engine re-verifies anyway.
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		c.captureFailure("submit_" + ev.ID)
		return false, err
	}

	return true, nil
}

func (c *Client) timeout() time.Duration {
	if c.cfg.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.cfg.TimeoutSeconds) * time.Second
}

// captureFailure stores a screenshot for post-mortem inspection. Best
// effort: a failed screenshot only logs.
func (c *Client) captureFailure(name string) {
	tctx, cancel := context.WithTimeout(c.browserCtx, 5*time.Second)
	defer cancel()

	var png []byte
	if err := chromedp.Run(tctx, chromedp.CaptureScreenshot(&png)); err != nil {
		c.logger.Warn("failed to capture screenshot", zap.String("name", name), zap.Error(err))
		return
	}

	path := filepath.Join(c.cfg.ScreenshotDir, fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		c.logger.Warn("failed to write screenshot", zap.String("path", path), zap.Error(err))
		return
	}
	c.logger.Info("saved failure screenshot", zap.String("path", path))
}
