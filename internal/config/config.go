package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Cfg struct {
	App        App        `yaml:"app"`
	Browser    Browser    `yaml:"browser"`
	Timeouts   Timeouts   `yaml:"timeouts"`
	Account    Account    `yaml:"account"`
	Logger     Logger     `yaml:"logger"`
	Database   Database   `yaml:"database"`
	Migrations Migrations `yaml:"migrations"`
	Artifacts  Artifacts  `yaml:"artifacts"`
	Metrics    Metrics    `yaml:"metrics"`
}

// App - адреса тестируемого приложения.
type App struct {
	BaseURL string `yaml:"base_url"`
	APIURL  string `yaml:"api_url"`
}

type Browser struct {
	Engine       string `yaml:"engine"`
	Headless     bool   `yaml:"headless"`
	BrowsersPath string `yaml:"browsers_path"`
	Display      string `yaml:"display"`
	RemoteURL    string `yaml:"remote_url"`
	Locale       string `yaml:"locale"`
}

type Timeouts struct {
	Element  time.Duration `yaml:"element"`
	Short    time.Duration `yaml:"short"`
	Navigate time.Duration `yaml:"navigate"`
	Poll     time.Duration `yaml:"poll"`
	// Preflight - сколько ждать, пока приложение начнет отвечать
	Preflight time.Duration `yaml:"preflight"`
}

// Account - учетная запись для авторизованных сценариев.
type Account struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	// Register - создать аккаунт через API перед входом
	Register bool `yaml:"register"`
}

type Logger struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Enabled - история запусков пишется только при заданном хосте.
func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL - адрес в формате golang-migrate.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Migrations struct {
	Path string `yaml:"path"`
}

type Artifacts struct {
	Dir string `yaml:"dir"`
}

type Metrics struct {
	File string `yaml:"file"`
}

func defaults() *Cfg {
	return &Cfg{
		App: App{
			BaseURL: "http://localhost:3000",
			APIURL:  "http://localhost:8000/api",
		},
		Browser: Browser{
			Engine:   "playwright",
			Headless: true,
			Display:  ":0",
			Locale:   "pt-BR",
		},
		Timeouts: Timeouts{
			Element:   5 * time.Second,
			Short:     3 * time.Second,
			Navigate:  30 * time.Second,
			Poll:      250 * time.Millisecond,
			Preflight: 60 * time.Second,
		},
		Account: Account{
			Name: "Usuário Teste",
		},
		Logger: Logger{
			Env:   "dev",
			Level: "info",
		},
		Database: Database{
			Port: "5432",
		},
		Migrations: Migrations{
			Path: "file://migrations",
		},
		Artifacts: Artifacts{
			Dir: "./artifacts",
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из
// E2E_CONFIG_FILE (если задан), затем переменные окружения и .env.
func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("E2E_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.App.BaseURL = strings.TrimRight(env("E2E_BASE_URL", cfg.App.BaseURL), "/")
	cfg.App.APIURL = strings.TrimRight(env("E2E_API_URL", cfg.App.APIURL), "/")

	cfg.Browser.Engine = env("E2E_BROWSER_ENGINE", cfg.Browser.Engine)
	cfg.Browser.Headless = envBool("PW_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.BrowsersPath = env("PLAYWRIGHT_BROWSERS_PATH", cfg.Browser.BrowsersPath)
	cfg.Browser.Display = env("DISPLAY", cfg.Browser.Display)
	cfg.Browser.RemoteURL = env("ROD_REMOTE_URL", cfg.Browser.RemoteURL)
	cfg.Browser.Locale = env("E2E_LOCALE", cfg.Browser.Locale)

	var err error
	if cfg.Timeouts.Element, err = envDuration("E2E_ELEMENT_TIMEOUT", cfg.Timeouts.Element); err != nil {
		return nil, err
	}
	if cfg.Timeouts.Short, err = envDuration("E2E_SHORT_TIMEOUT", cfg.Timeouts.Short); err != nil {
		return nil, err
	}
	if cfg.Timeouts.Navigate, err = envDuration("E2E_NAVIGATE_TIMEOUT", cfg.Timeouts.Navigate); err != nil {
		return nil, err
	}
	if cfg.Timeouts.Poll, err = envDuration("E2E_POLL_INTERVAL", cfg.Timeouts.Poll); err != nil {
		return nil, err
	}
	if cfg.Timeouts.Preflight, err = envDuration("E2E_PREFLIGHT_TIMEOUT", cfg.Timeouts.Preflight); err != nil {
		return nil, err
	}

	cfg.Account.Name = env("E2E_ACCOUNT_NAME", cfg.Account.Name)
	cfg.Account.Email = env("E2E_ACCOUNT_EMAIL", cfg.Account.Email)
	cfg.Account.Password = env("E2E_ACCOUNT_PASSWORD", cfg.Account.Password)
	cfg.Account.Register = envBool("E2E_REGISTER_ACCOUNT", cfg.Account.Register)

	cfg.Logger.Env = env("ENV", cfg.Logger.Env)
	cfg.Logger.Level = env("LOG_LEVEL", cfg.Logger.Level)

	cfg.Database.Host = env("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = env("DB_PORT", cfg.Database.Port)
	cfg.Database.Name = env("DB_NAME", cfg.Database.Name)
	cfg.Database.User = env("DB_USER", cfg.Database.User)
	cfg.Database.Password = env("DB_PASS", cfg.Database.Password)

	cfg.Migrations.Path = env("MIGRATIONS_PATH", cfg.Migrations.Path)
	cfg.Artifacts.Dir = env("E2E_ARTIFACTS_DIR", cfg.Artifacts.Dir)
	cfg.Metrics.File = env("METRICS_FILE", cfg.Metrics.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Cfg) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение конфига %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("разбор конфига %s: %w", path, err)
	}
	return nil
}

func (c *Cfg) Validate() error {
	var errs []error

	for name, raw := range map[string]string{"E2E_BASE_URL": c.App.BaseURL, "E2E_API_URL": c.App.APIURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: ожидается http(s) адрес, получено %q", name, raw))
		}
	}

	switch c.Browser.Engine {
	case "playwright", "rod":
	default:
		errs = append(errs, fmt.Errorf("E2E_BROWSER_ENGINE: неизвестный движок %q", c.Browser.Engine))
	}

	for name, d := range map[string]time.Duration{
		"element":   c.Timeouts.Element,
		"short":     c.Timeouts.Short,
		"navigate":  c.Timeouts.Navigate,
		"poll":      c.Timeouts.Poll,
		"preflight": c.Timeouts.Preflight,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("таймаут %s должен быть положительным, получено %s", name, d))
		}
	}

	if c.Account.Register && (c.Account.Email == "" || c.Account.Password == "") {
		errs = append(errs, errors.New("E2E_REGISTER_ACCOUNT требует E2E_ACCOUNT_EMAIL и E2E_ACCOUNT_PASSWORD"))
	}

	return errors.Join(errs...)
}

// HasAccount - заданы ли учетные данные для авторизованных сценариев.
func (c *Cfg) HasAccount() bool {
	return c.Account.Email != "" && c.Account.Password != ""
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) bool {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// envDuration принимает "5s", "250ms" или целое число миллисекунд.
func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	if ms := envInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
