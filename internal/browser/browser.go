package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Engine string

const (
	EnginePlaywright Engine = "playwright"
	EngineRod        Engine = "rod"
)

type Config struct {
	Engine       Engine
	Headless     bool
	BrowsersPath string
	Display      string
	RemoteURL    string
	Locale       string
	// ActionTimeout - верхняя граница одной команды драйвера
	ActionTimeout time.Duration
	// ProbeTimeout - сколько драйвер ждет один probe
	ProbeTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Engine == "" {
		c.Engine = EnginePlaywright
	}
	if c.ActionTimeout == 0 {
		c.ActionTimeout = 10 * time.Second
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = time.Second
	}
	return c
}

// Launcher создает новую изолированную сессию на каждый вызов Launch.
type Launcher struct {
	cfg      Config
	baseURL  string
	timeouts Timeouts
	log      *zap.Logger
	observer WaitObserver
}

func NewLauncher(cfg Config, baseURL string, timeouts Timeouts, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{
		cfg:      cfg.withDefaults(),
		baseURL:  baseURL,
		timeouts: timeouts,
		log:      log,
	}
}

func (l *Launcher) SetWaitObserver(o WaitObserver) {
	l.observer = o
}

func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	var (
		driver Driver
		err    error
	)
	switch l.cfg.Engine {
	case EnginePlaywright:
		driver, err = LaunchPlaywright(ctx, l.cfg)
	case EngineRod:
		driver, err = LaunchRod(ctx, l.cfg)
	default:
		return nil, fmt.Errorf("неизвестный движок браузера %q", l.cfg.Engine)
	}
	if err != nil {
		return nil, err
	}

	l.log.Debug("браузер запущен",
		zap.String("engine", string(l.cfg.Engine)),
		zap.Bool("headless", l.cfg.Headless),
	)
	return NewSession(driver, l.baseURL,
		WithLogger(l.log),
		WithTimeouts(l.timeouts),
		WithWaitObserver(l.observer),
	), nil
}
