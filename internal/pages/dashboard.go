package pages

import (
	"context"
	"fmt"

	"imunetrackE2E/internal/browser"
)

const DashboardPath = "/dashboard"

// Section - вкладка боковой панели. Вкладки переключаются без смены URL.
type Section int

const (
	SectionDashboard Section = iota
	SectionSchedule
	SectionHistory
)

func (s Section) String() string {
	switch s {
	case SectionDashboard:
		return "Dashboard"
	case SectionSchedule:
		return "Agendar Vacina"
	case SectionHistory:
		return "Histórico"
	default:
		return fmt.Sprintf("Section(%d)", int(s))
	}
}

// Заголовки карточек статистики.
const (
	StatUpToDateTitle = "Vacinas Aplicadas"
	StatUpcomingTitle = "Pendentes"
	StatOverdueTitle  = "Atrasadas"
)

var (
	DashboardLogout   = browser.ByXPath("//header//button[contains(.,'Sair')]")
	DashboardWelcome  = browser.ByXPath("//main//h2[contains(@class,'tracking-tight')]")
	DashboardUserName = browser.ByXPath("//header//p[contains(@class,'font-medium')]")
	DashboardUserMail = browser.ByXPath("//header//p[contains(.,'@')]")
	DashboardSettings = browser.ByXPath("//aside//button[contains(.,'Configurações')]")
	SettingsDialog    = browser.ByXPath("//*[@role='dialog'][contains(.,'Configurações')]")

	StatUpToDate = statValue(StatUpToDateTitle)
	StatUpcoming = statValue(StatUpcomingTitle)
	StatOverdue  = statValue(StatOverdueTitle)
)

// NavButton - кнопка вкладки в боковой панели.
func NavButton(s Section) browser.Locator {
	return browser.ByXPath("//nav//button[contains(.,'" + s.String() + "')]")
}

// statValue - число в CardContent, следующем за заголовком карточки.
func statValue(title string) browser.Locator {
	return browser.ByXPath("//*[normalize-space(text())='" + title + "']/parent::*/following-sibling::*//div[contains(@class,'text-2xl')]")
}

// StatCounts - значения карточек как отрисованный текст.
type StatCounts struct {
	UpToDate string
	Upcoming string
	Overdue  string
}

type Dashboard struct {
	s *browser.Session
}

func NewDashboard(s *browser.Session) *Dashboard {
	return &Dashboard{s: s}
}

// IsAuthenticatedView - виден ли интерфейс авторизованного пользователя.
// Дашборд без пользователя в localStorage ничего не рисует и уводит на /login.
func (p *Dashboard) IsAuthenticatedView(ctx context.Context) bool {
	return p.s.IsVisible(ctx, DashboardLogout, p.s.Timeouts().Element)
}

// WelcomeName - имя в приветственном баннере.
func (p *Dashboard) WelcomeName(ctx context.Context) (string, error) {
	return p.s.GetText(ctx, DashboardWelcome, p.s.Timeouts().Element)
}

// StatCounts читает три карточки и проверяет, что каждая содержит целое число.
func (p *Dashboard) StatCounts(ctx context.Context) (StatCounts, error) {
	var counts StatCounts
	cards := []struct {
		title string
		loc   browser.Locator
		dst   *string
	}{
		{StatUpToDateTitle, StatUpToDate, &counts.UpToDate},
		{StatUpcomingTitle, StatUpcoming, &counts.Upcoming},
		{StatOverdueTitle, StatOverdue, &counts.Overdue},
	}
	for _, c := range cards {
		text, err := p.s.GetText(ctx, c.loc, p.s.Timeouts().Element)
		if err != nil {
			return StatCounts{}, err
		}
		if !digits.MatchString(text) {
			return StatCounts{}, fmt.Errorf("карточка %q содержит %q: %w", c.title, text, ErrUnexpectedContent)
		}
		*c.dst = text
	}
	return counts, nil
}

// GoTo нажимает кнопку вкладки. Прибытие подтверждает Page Object раздела.
func (p *Dashboard) GoTo(ctx context.Context, s Section) error {
	return p.s.Click(ctx, NavButton(s))
}

func (p *Dashboard) OpenSettings(ctx context.Context) error {
	return p.s.Click(ctx, DashboardSettings)
}

func (p *Dashboard) IsSettingsOpen(ctx context.Context) bool {
	return p.s.IsVisible(ctx, SettingsDialog, p.s.Timeouts().Element)
}

func (p *Dashboard) IsUserInfoVisible(ctx context.Context) bool {
	return p.s.IsVisible(ctx, DashboardUserName, p.s.Timeouts().Short) &&
		p.s.IsVisible(ctx, DashboardUserMail, p.s.Timeouts().Short)
}

// UserInfo - имя и email из шапки.
func (p *Dashboard) UserInfo(ctx context.Context) (name, email string, err error) {
	if name, err = p.s.GetText(ctx, DashboardUserName, p.s.Timeouts().Short); err != nil {
		return "", "", err
	}
	if email, err = p.s.GetText(ctx, DashboardUserMail, p.s.Timeouts().Short); err != nil {
		return "", "", err
	}
	return name, email, nil
}

// Logout нажимает "Sair" и ждет ухода с дашборда.
func (p *Dashboard) Logout(ctx context.Context) error {
	if err := p.s.Click(ctx, DashboardLogout); err != nil {
		return err
	}
	if !p.s.WaitGone(ctx, DashboardLogout, p.s.Timeouts().Element) {
		return fmt.Errorf("logout: дашборд не закрылся: %w", ErrUnexpectedContent)
	}
	return nil
}
