package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"imunetrackE2E/internal/sanitizer"
)

// Session - живая сессия одного браузера на время одного теста.
// Все чтения документа проходят через цикл ожидания.
type Session struct {
	driver   Driver
	baseURL  string
	timeouts Timeouts
	log      *zap.Logger
	observer WaitObserver
	closed   atomic.Bool
}

type SessionOption func(*Session)

func WithLogger(log *zap.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func WithTimeouts(t Timeouts) SessionOption {
	return func(s *Session) {
		s.timeouts = t
	}
}

func WithWaitObserver(o WaitObserver) SessionOption {
	return func(s *Session) {
		s.observer = o
	}
}

func NewSession(driver Driver, baseURL string, opts ...SessionOption) *Session {
	s := &Session{
		driver:  driver,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timeouts = s.timeouts.withDefaults()
	return s
}

func (s *Session) Timeouts() Timeouts { return s.timeouts }
func (s *Session) BaseURL() string    { return s.baseURL }

// Close освобождает браузер. Повторный вызов безопасен.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.log.Debug("закрытие сессии")
	return s.driver.Close()
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}

func (s *Session) poll(ctx context.Context, kind string, loc Locator, timeout time.Duration, ready func(ElementState) bool) (Outcome[ElementState], ElementState) {
	var last ElementState
	out := Poll(ctx, func(ctx context.Context) (ElementState, bool, error) {
		if s.closed.Load() {
			return ElementState{}, false, ErrSessionClosed
		}
		st, err := s.driver.Probe(ctx, loc)
		if err != nil {
			return st, false, err
		}
		last = st
		return st, ready(st), nil
	}, timeout, s.timeouts.Poll)
	s.observe(kind, out.Satisfied, out.Elapsed)
	return out, last
}

func (s *Session) observe(kind string, satisfied bool, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.ObserveWait(kind, satisfied, elapsed)
	}
}

// IsVisible возвращает true, если элемент отрисован и виден в пределах timeout.
// Отсутствие элемента - нормальный исход, ошибка не возвращается.
func (s *Session) IsVisible(ctx context.Context, loc Locator, timeout time.Duration) bool {
	out, _ := s.poll(ctx, "visible", loc, timeout, func(st ElementState) bool {
		return st.Found && st.Visible
	})
	if !out.Satisfied {
		s.log.Debug("элемент не виден",
			zap.Stringer("locator", loc),
			zap.Duration("timeout", timeout),
			zap.Int("polls", out.Polls),
			zap.Error(out.Err),
		)
	}
	return out.Satisfied
}

// Exists - то же, что IsVisible, но достаточно присутствия в DOM.
func (s *Session) Exists(ctx context.Context, loc Locator, timeout time.Duration) bool {
	out, _ := s.poll(ctx, "present", loc, timeout, func(st ElementState) bool {
		return st.Found
	})
	return out.Satisfied
}

// GetText ждет появления элемента и возвращает его отрисованный текст.
func (s *Session) GetText(ctx context.Context, loc Locator, timeout time.Duration) (string, error) {
	out, _ := s.poll(ctx, "text", loc, timeout, func(st ElementState) bool {
		return st.Found
	})
	if !out.Satisfied {
		return "", newActionError(KindElementNotFound, "get text", loc.String(), timeout, out.Err)
	}
	return strings.TrimSpace(out.Value.Text), nil
}

// GetValue возвращает значение поля ввода.
func (s *Session) GetValue(ctx context.Context, loc Locator, timeout time.Duration) (string, error) {
	out, _ := s.poll(ctx, "value", loc, timeout, func(st ElementState) bool {
		return st.Found
	})
	if !out.Satisfied {
		return "", newActionError(KindElementNotFound, "get value", loc.String(), timeout, out.Err)
	}
	return out.Value.Value, nil
}

// WaitGone ждет, пока элемент исчезнет из DOM или перестанет быть видимым.
func (s *Session) WaitGone(ctx context.Context, loc Locator, timeout time.Duration) bool {
	out, _ := s.poll(ctx, "gone", loc, timeout, func(st ElementState) bool {
		return !st.Found || !st.Visible
	})
	return out.Satisfied
}

// WaitForText ждет, пока текст элемента станет равен want.
func (s *Session) WaitForText(ctx context.Context, loc Locator, want string, timeout time.Duration) bool {
	out, _ := s.poll(ctx, "text-equals", loc, timeout, func(st ElementState) bool {
		return st.Found && strings.TrimSpace(st.Text) == want
	})
	return out.Satisfied
}

// WaitForURL ждет, пока текущий адрес совпадет с шаблоном.
func (s *Session) WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) bool {
	out := WaitUntil(ctx, func(context.Context) (bool, error) {
		if s.closed.Load() {
			return false, ErrSessionClosed
		}
		return pattern.MatchString(s.driver.URL()), nil
	}, timeout, s.timeouts.Poll)
	s.observe("url", out.Satisfied, out.Elapsed)
	return out.Satisfied
}

// CurrentLocation - текущий адрес документа, без ожидания.
func (s *Session) CurrentLocation() string {
	return s.driver.URL()
}

// waitInteractable ждет видимости (и, если нужно, доступности) элемента.
// Различает "не найден" и "найден, но недоступен".
func (s *Session) waitInteractable(ctx context.Context, action string, loc Locator, needEnabled bool) error {
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	timeout := s.timeouts.Element
	out, last := s.poll(ctx, action, loc, timeout, func(st ElementState) bool {
		return st.Found && st.Visible && (!needEnabled || st.Enabled)
	})
	if out.Satisfied {
		return nil
	}
	if last.Found {
		return newActionError(KindElementNotInteractable, action, loc.String(), timeout, out.Err)
	}
	return newActionError(KindElementNotFound, action, loc.String(), timeout, out.Err)
}

// Click дожидается видимости элемента и кликает по нему.
func (s *Session) Click(ctx context.Context, loc Locator) error {
	if err := s.waitInteractable(ctx, "click", loc, false); err != nil {
		return err
	}
	s.log.Debug("клик", zap.Stringer("locator", loc))
	if err := s.driver.Click(ctx, loc); err != nil {
		return newActionError(KindElementNotInteractable, "click", loc.String(), s.timeouts.Element, err)
	}
	return nil
}

// TypeText дожидается видимого и доступного поля, очищает его и вводит text.
func (s *Session) TypeText(ctx context.Context, loc Locator, text string) error {
	if err := s.waitInteractable(ctx, "type", loc, true); err != nil {
		return err
	}
	s.log.Debug("ввод текста", zap.Stringer("locator", loc), zap.String("text", sanitizer.SanitizeValue(loc.String(), text)))
	if err := s.driver.Fill(ctx, loc, text); err != nil {
		return newActionError(KindElementNotInteractable, "type", loc.String(), s.timeouts.Element, err)
	}
	return nil
}

// SelectOption выбирает вариант в <select> по тексту или значению.
func (s *Session) SelectOption(ctx context.Context, loc Locator, option string) error {
	if err := s.waitInteractable(ctx, "select", loc, true); err != nil {
		return err
	}
	s.log.Debug("выбор варианта", zap.Stringer("locator", loc), zap.String("option", option))
	if err := s.driver.SelectOption(ctx, loc, option); err != nil {
		return newActionError(KindElementNotInteractable, "select", loc.String(), s.timeouts.Element, err)
	}
	return nil
}

// Navigate загружает baseURL+path и ждет готовности документа,
// а не только отправки запроса.
func (s *Session) Navigate(ctx context.Context, path string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	url := s.baseURL + path
	timeout := s.timeouts.Navigate
	start := time.Now()

	s.log.Info("переход", zap.String("url", url))
	if err := s.driver.Goto(ctx, url, timeout); err != nil {
		return newActionError(KindNavigationTimeout, "navigate", url, timeout, err)
	}

	remaining := timeout - time.Since(start)
	out := WaitUntil(ctx, func(ctx context.Context) (bool, error) {
		state, err := s.driver.ReadyState(ctx)
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	}, remaining, s.timeouts.Poll)
	s.observe("navigate", out.Satisfied, time.Since(start))
	if !out.Satisfied {
		return newActionError(KindNavigationTimeout, "navigate", url, timeout, out.Err)
	}
	return nil
}

// Screenshot сохраняет снимок страницы в dir/name.png и возвращает путь.
func (s *Session) Screenshot(ctx context.Context, dir, name string) (string, error) {
	if s.closed.Load() {
		return "", ErrSessionClosed
	}
	path := filepath.Join(dir, sanitizeFileName(name)+".png")
	if err := s.driver.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("скриншот %s: %w", path, err)
	}
	return path, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeFileName(name string) string {
	name = unsafeFileChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
