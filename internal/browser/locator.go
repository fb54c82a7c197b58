package browser

import (
	"fmt"
	"strings"
)

// Strategy задает способ поиска элемента в документе.
type Strategy int

const (
	StrategyID Strategy = iota
	StrategyXPath
	StrategyCSS
)

func (s Strategy) String() string {
	switch s {
	case StrategyID:
		return "id"
	case StrategyXPath:
		return "xpath"
	case StrategyCSS:
		return "css"
	default:
		return "unknown"
	}
}

// Locator - неизменяемая пара (стратегия, значение). Сравнимый тип,
// поэтому может быть ключом map.
type Locator struct {
	strategy Strategy
	value    string
}

func ByID(id string) Locator {
	return Locator{strategy: StrategyID, value: id}
}

func ByXPath(xpath string) Locator {
	return Locator{strategy: StrategyXPath, value: xpath}
}

func ByCSS(selector string) Locator {
	return Locator{strategy: StrategyCSS, value: selector}
}

// ByText строит XPath локатор по вхождению текста: //tag[contains(., 'text')].
// Пустой tag означает любой элемент.
func ByText(tag, text string) Locator {
	if tag == "" {
		tag = "*"
	}
	return ByXPath("//" + tag + "[contains(., " + xpathLiteral(text) + ")]")
}

func (l Locator) Strategy() Strategy { return l.strategy }
func (l Locator) Value() string      { return l.value }

func (l Locator) String() string {
	return l.strategy.String() + "=" + l.value
}

// Resolve - единственная точка диспетчеризации по стратегии: возвращает
// выражение запроса и признак того, что это XPath (иначе CSS).
func (l Locator) Resolve() (expr string, xpath bool) {
	switch l.strategy {
	case StrategyID:
		return `[id="` + cssEscape(l.value) + `"]`, false
	case StrategyXPath:
		return l.value, true
	case StrategyCSS:
		return l.value, false
	default:
		panic(fmt.Sprintf("browser: unknown locator strategy %d", l.strategy))
	}
}

// Selector переводит локатор в селектор движка Playwright.
func (l Locator) Selector() string {
	expr, xpath := l.Resolve()
	if xpath {
		return "xpath=" + expr
	}
	return "css=" + expr
}

// Validate проверяет, что локатор пригоден для поиска.
func (l Locator) Validate() error {
	value := strings.TrimSpace(l.value)
	if value == "" {
		return fmt.Errorf("пустой локатор (%s)", l.strategy)
	}
	if strings.Contains(value, "://") {
		return fmt.Errorf("локатор не может быть URL, для перехода используй Navigate: %s", l.value)
	}
	switch l.strategy {
	case StrategyID, StrategyCSS:
	case StrategyXPath:
		if !strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "(") {
			return fmt.Errorf("xpath должен начинаться с '/' или '(': %s", l.value)
		}
	default:
		return fmt.Errorf("неизвестная стратегия локатора %d", l.strategy)
	}
	return nil
}

func cssEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// xpathLiteral экранирует строку для XPath 1.0, где нет escape-последовательностей.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}
