package browser

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrElementNotFound        = errors.New("element not found")
	ErrElementNotInteractable = errors.New("element not interactable")
	ErrNavigationTimeout      = errors.New("navigation timeout")
	ErrSessionClosed          = errors.New("session closed")
)

type ErrorKind int

const (
	KindElementNotFound ErrorKind = iota
	KindElementNotInteractable
	KindNavigationTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindElementNotFound:
		return "ElementNotFound"
	case KindElementNotInteractable:
		return "ElementNotInteractable"
	case KindNavigationTimeout:
		return "NavigationTimeout"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindElementNotFound:
		return ErrElementNotFound
	case KindElementNotInteractable:
		return ErrElementNotInteractable
	case KindNavigationTimeout:
		return ErrNavigationTimeout
	default:
		return nil
	}
}

// ActionError описывает невыполненное обязательное условие ожидания.
// Target - локатор или адрес, Err - последняя ошибка драйвера (может быть nil).
type ActionError struct {
	Kind    ErrorKind
	Action  string
	Target  string
	Timeout time.Duration
	Err     error
}

func (e *ActionError) Error() string {
	msg := fmt.Sprintf("%s %s: %s after %s", e.Action, e.Target, e.Kind.sentinel(), e.Timeout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать с ErrElementNotFound и остальными сигнальными ошибками.
func (e *ActionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newActionError(kind ErrorKind, action, target string, timeout time.Duration, err error) *ActionError {
	return &ActionError{
		Kind:    kind,
		Action:  action,
		Target:  target,
		Timeout: timeout,
		Err:     err,
	}
}
