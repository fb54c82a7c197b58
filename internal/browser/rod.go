package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodDriver - Driver поверх go-rod (Chrome через CDP).
type RodDriver struct {
	browser *rod.Browser
	page    *rod.Page
	lnch    *launcher.Launcher
	timeout time.Duration
}

// LaunchRod запускает локальный Chrome либо подключается к RemoteURL.
func LaunchRod(ctx context.Context, cfg Config) (*RodDriver, error) {
	cfg = cfg.withDefaults()

	var (
		wsURL string
		lnch  *launcher.Launcher
	)
	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
	} else {
		lnch = launcher.New().
			Headless(cfg.Headless).
			NoSandbox(true)
		if env := cfg.envMap(); env != nil {
			lnch = lnch.Env("DISPLAY=" + env["DISPLAY"])
		}
		if cfg.Locale != "" {
			lnch = lnch.Set("lang", cfg.Locale)
		}
		u, err := lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("запуск chrome: %w", err)
		}
		wsURL = u
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("подключение к chrome: %w", err)
	}

	// Инкогнито-контекст, чтобы сессии не делили localStorage
	incognito, err := b.Incognito()
	if err != nil {
		b.Close()
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("инкогнито-контекст: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		b.Close()
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("создание вкладки: %w", err)
	}

	return &RodDriver{
		browser: b,
		page:    page,
		lnch:    lnch,
		timeout: cfg.ActionTimeout,
	}, nil
}

// p привязывает страницу к ctx с таймаутом действия. cancel обязателен:
// элементы, найденные через эту страницу, живут до его вызова.
func (d *RodDriver) p(ctx context.Context) (*rod.Page, context.CancelFunc) {
	return d.withTimeout(ctx, d.timeout)
}

func (d *RodDriver) withTimeout(ctx context.Context, timeout time.Duration) (*rod.Page, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return d.page.Context(tctx), cancel
}

func (d *RodDriver) Goto(ctx context.Context, url string, timeout time.Duration) error {
	page, cancel := d.withTimeout(ctx, timeout)
	defer cancel()
	return page.Navigate(url)
}

func (d *RodDriver) ReadyState(ctx context.Context) (string, error) {
	page, cancel := d.p(ctx)
	defer cancel()
	res, err := page.Eval(`() => document.readyState`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (d *RodDriver) URL() string {
	info, err := d.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// first возвращает первый совпавший элемент или nil. Не ждет появления.
func (d *RodDriver) first(page *rod.Page, loc Locator) (*rod.Element, error) {
	expr, xpath := loc.Resolve()
	var (
		els rod.Elements
		err error
	)
	if xpath {
		els, err = page.ElementsX(expr)
	} else {
		els, err = page.Elements(expr)
	}
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, nil
	}
	return els.First(), nil
}

func (d *RodDriver) element(page *rod.Page, loc Locator) (*rod.Element, error) {
	el, err := d.first(page, loc)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, loc)
	}
	return el, nil
}

func (d *RodDriver) Probe(ctx context.Context, loc Locator) (ElementState, error) {
	page, cancel := d.p(ctx)
	defer cancel()
	el, err := d.first(page, loc)
	if err != nil || el == nil {
		return ElementState{}, err
	}
	res, err := el.Eval(`function() { const el = this;` + probeScript + `}`)
	if err != nil {
		return ElementState{}, err
	}
	v := res.Value
	return ElementState{
		Found:   true,
		Visible: v.Get("visible").Bool(),
		Enabled: v.Get("enabled").Bool(),
		Text:    v.Get("text").Str(),
		Value:   v.Get("value").Str(),
	}, nil
}

func (d *RodDriver) Click(ctx context.Context, loc Locator) error {
	page, cancel := d.p(ctx)
	defer cancel()
	el, err := d.element(page, loc)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (d *RodDriver) Fill(ctx context.Context, loc Locator, text string) error {
	page, cancel := d.p(ctx)
	defer cancel()
	el, err := d.element(page, loc)
	if err != nil {
		return err
	}

	// input[type=date] не принимает посимвольный ввод
	typ, err := el.Property("type")
	if err == nil && typ.Str() == "date" && text != "" {
		t, perr := time.Parse("2006-01-02", text)
		if perr != nil {
			return fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %w", perr)
		}
		return el.InputTime(t)
	}

	if err := el.SelectAllText(); err != nil {
		return err
	}
	if text == "" {
		return el.Type(input.Backspace)
	}
	return el.Input(text)
}

func (d *RodDriver) SelectOption(ctx context.Context, loc Locator, option string) error {
	page, cancel := d.p(ctx)
	defer cancel()
	el, err := d.element(page, loc)
	if err != nil {
		return err
	}
	return el.Select([]string{option}, true, rod.SelectorTypeText)
}

func (d *RodDriver) Screenshot(ctx context.Context, path string) error {
	page, cancel := d.p(ctx)
	defer cancel()
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *RodDriver) Close() error {
	var errs []error
	if d.page != nil {
		errs = append(errs, d.page.Close())
	}
	if d.browser != nil {
		errs = append(errs, d.browser.Close())
	}
	if d.lnch != nil {
		d.lnch.Cleanup()
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("закрытие браузера: %w", err)
	}
	return nil
}
