package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver - Driver поверх playwright-go.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	probeMS float64
}

func (c Config) playwrightArgs() []string {
	return []string{
		"--no-sandbox",
	}
}

func (c Config) envMap() map[string]string {
	if c.Display != "" && !c.Headless {
		return map[string]string{
			"DISPLAY": c.Display,
		}
	}
	return nil
}

// LaunchPlaywright запускает браузер и открывает пустую вкладку.
func LaunchPlaywright(ctx context.Context, cfg Config) (*PlaywrightDriver, error) {
	if cfg.BrowsersPath != "" {
		os.Setenv("PLAYWRIGHT_BROWSERS_PATH", cfg.BrowsersPath)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("запуск playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     cfg.playwrightArgs(),
	}
	if env := cfg.envMap(); env != nil {
		opts.Env = env
	}

	br, err := pw.Chromium.Launch(opts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("запуск браузера: %w", err)
	}

	// Отдельный контекст - изолированные cookies и localStorage на тест
	ctxOpts := playwright.BrowserNewContextOptions{}
	if cfg.Locale != "" {
		ctxOpts.Locale = playwright.String(cfg.Locale)
	}
	bctx, err := br.NewContext(ctxOpts)
	if err != nil {
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("создание контекста: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		br.Close()
		pw.Stop()
		return nil, fmt.Errorf("создание вкладки: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.ActionTimeout.Milliseconds()))

	return &PlaywrightDriver{
		pw:      pw,
		browser: br,
		context: bctx,
		page:    page,
		probeMS: float64(cfg.ProbeTimeout.Milliseconds()),
	}, nil
}

func (d *PlaywrightDriver) Goto(ctx context.Context, url string, timeout time.Duration) error {
	// Готовность документа проверяет Session, здесь достаточно commit
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateCommit,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (d *PlaywrightDriver) ReadyState(ctx context.Context) (string, error) {
	res, err := d.page.Evaluate(`() => document.readyState`)
	if err != nil {
		return "", err
	}
	state, _ := res.(string)
	return state, nil
}

func (d *PlaywrightDriver) URL() string {
	return d.page.URL()
}

func (d *PlaywrightDriver) locate(loc Locator) playwright.Locator {
	return d.page.Locator(loc.Selector()).First()
}

func (d *PlaywrightDriver) Probe(ctx context.Context, loc Locator) (ElementState, error) {
	count, err := d.page.Locator(loc.Selector()).Count()
	if err != nil {
		return ElementState{}, err
	}
	if count == 0 {
		return ElementState{}, nil
	}

	res, err := d.locate(loc).Evaluate(`el => {`+probeScript+`}`, nil, playwright.LocatorEvaluateOptions{
		Timeout: playwright.Float(d.probeMS),
	})
	if err != nil {
		// Элемент мог исчезнуть между Count и Evaluate
		return ElementState{}, err
	}
	m, ok := res.(map[string]interface{})
	if !ok {
		return ElementState{}, fmt.Errorf("неожиданный результат probe: %T", res)
	}
	return stateFromMap(m), nil
}

func (d *PlaywrightDriver) Click(ctx context.Context, loc Locator) error {
	return d.locate(loc).Click()
}

func (d *PlaywrightDriver) Fill(ctx context.Context, loc Locator, text string) error {
	// Fill очищает поле и вводит значение одной операцией
	return d.locate(loc).Fill(text)
}

func (d *PlaywrightDriver) SelectOption(ctx context.Context, loc Locator, option string) error {
	el := d.locate(loc)
	if _, err := el.SelectOption(playwright.SelectOptionValues{Labels: &[]string{option}}); err == nil {
		return nil
	}
	_, err := el.SelectOption(playwright.SelectOptionValues{Values: &[]string{option}})
	return err
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (d *PlaywrightDriver) Close() error {
	var errs []error
	if d.context != nil {
		errs = append(errs, d.context.Close())
	}
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
	}
	if d.pw != nil {
		errs = append(errs, d.pw.Stop())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("закрытие браузера: %w", err)
	}
	return nil
}
