package browser

import (
	"context"
	"time"
)

// Driver - минимальный доступ к живому документу одного браузера.
// Реализации: PlaywrightDriver, RodDriver, browsertest.Document.
type Driver interface {
	// Goto отправляет навигацию; готовность документа проверяет Session.
	Goto(ctx context.Context, url string, timeout time.Duration) error
	ReadyState(ctx context.Context) (string, error)
	URL() string
	// Probe возвращает состояние первого совпавшего элемента.
	Probe(ctx context.Context, loc Locator) (ElementState, error)
	Click(ctx context.Context, loc Locator) error
	Fill(ctx context.Context, loc Locator, text string) error
	SelectOption(ctx context.Context, loc Locator, option string) error
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// ElementState - снимок элемента на момент чтения.
type ElementState struct {
	Found   bool
	Visible bool
	Enabled bool
	Text    string
	Value   string
}

// Timeouts - таймауты ожиданий сессии.
type Timeouts struct {
	Element  time.Duration
	Short    time.Duration
	Navigate time.Duration
	Poll     time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Element <= 0 {
		t.Element = 5 * time.Second
	}
	if t.Short <= 0 {
		t.Short = 3 * time.Second
	}
	// Навигация включает сетевую задержку, поэтому дольше
	if t.Navigate <= 0 {
		t.Navigate = 30 * time.Second
	}
	if t.Poll <= 0 {
		t.Poll = DefaultPollInterval
	}
	return t
}

// WaitObserver получает результат каждого ожидания (метрики).
type WaitObserver interface {
	ObserveWait(kind string, satisfied bool, elapsed time.Duration)
}

// probeScript вычисляет ElementState одним вызовом в странице.
// Видимость: ненулевая площадь и не скрыт стилями.
const probeScript = `
	const r = el.getBoundingClientRect();
	const s = window.getComputedStyle(el);
	const visible = r.width > 0 && r.height > 0 &&
		s.visibility !== 'hidden' && s.display !== 'none' && s.opacity !== '0';
	return {
		visible: visible,
		enabled: !el.disabled,
		text: (el.innerText !== undefined ? el.innerText : el.textContent) || '',
		value: typeof el.value === 'string' ? el.value : ''
	};
`

func stateFromMap(m map[string]interface{}) ElementState {
	st := ElementState{Found: true}
	st.Visible, _ = m["visible"].(bool)
	st.Enabled, _ = m["enabled"].(bool)
	st.Text, _ = m["text"].(string)
	st.Value, _ = m["value"].(string)
	return st
}
