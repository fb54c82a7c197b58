package pages

import (
	"context"
	"fmt"

	"imunetrackE2E/internal/browser"
)

var (
	HistoryHeading = browser.ByXPath("//main//h2[contains(.,'Histórico de Vacinação')]")
	// строка записи: div.hover-lift внутри списка div.space-y-4, название в <h4>
	HistoryItem = browser.ByXPath("//main//div[contains(@class,'space-y-4')]/div[contains(@class,'hover-lift')]")
	// "Nenhuma vacina registrada" или "Nenhuma vacina encontrada" в зависимости от версии
	HistoryEmpty = browser.ByXPath("//*[contains(text(),'Nenhuma vacina')]")
)

// HistoryView - что отрисовано в истории. Хотя бы одно поле true.
type HistoryView struct {
	ListPresent           bool
	EmptyIndicatorPresent bool
}

type History struct {
	s *browser.Session
}

func NewHistory(s *browser.Session) *History {
	return &History{s: s}
}

func (p *History) IsOnHistoryPage(ctx context.Context) bool {
	return p.s.IsVisible(ctx, HistoryHeading, p.s.Timeouts().Element)
}

// Records ждет, пока отрисуется список или пустое состояние.
// Если за Element-таймаут не появилось ни того, ни другого - ошибка.
func (p *History) Records(ctx context.Context) (HistoryView, error) {
	out := browser.Poll(ctx, func(ctx context.Context) (HistoryView, bool, error) {
		v := HistoryView{
			ListPresent:           p.s.IsVisible(ctx, HistoryItem, 0),
			EmptyIndicatorPresent: p.s.IsVisible(ctx, HistoryEmpty, 0),
		}
		return v, v.ListPresent || v.EmptyIndicatorPresent, nil
	}, p.s.Timeouts().Element, p.s.Timeouts().Poll)

	if !out.Satisfied {
		return HistoryView{}, fmt.Errorf("history: нет ни списка, ни сообщения об отсутствии записей: %w", ErrUnexpectedContent)
	}
	return out.Value, nil
}
