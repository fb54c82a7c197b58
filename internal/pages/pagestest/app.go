// Package pagestest имитирует фронтенд ImuneTrack поверх browsertest.Document:
// те же экраны, локаторы и асинхронная отрисовка, но без браузера.
package pagestest

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/browser/browsertest"
	"imunetrackE2E/internal/pages"
)

type Account struct {
	Name     string
	Email    string
	Password string
}

type Stats struct {
	Applied, Pending, Overdue int
}

// App - состояние "сервера": аккаунты и записи о вакцинах.
type App struct {
	mu       sync.Mutex
	accounts map[string]Account
	records  map[string][]string
	stats    map[string]Stats

	// RenderDelay - задержка асинхронной отрисовки после действия
	RenderDelay time.Duration
	// Vaccines - варианты в <select> формы записи
	Vaccines []string
	// BrokenHistory - история не рисует ни список, ни пустое состояние
	BrokenHistory bool
	// StatText подменяет текст карточек, например "—" при ошибке API
	StatText string
	// Now - текущая дата приложения для проверки даты записи
	Now func() time.Time
}

func New() *App {
	return &App{
		accounts:    make(map[string]Account),
		records:     make(map[string][]string),
		stats:       make(map[string]Stats),
		RenderDelay: 20 * time.Millisecond,
		Vaccines:    []string{"BCG", "Hepatite B", "Febre Amarela", "Tríplice Viral"},
		Now:         time.Now,
	}
}

func (a *App) AddAccount(acc Account) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accounts[acc.Email] = acc
}

func (a *App) HasAccount(email string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.accounts[email]
	return ok
}

func (a *App) SetStats(email string, s Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats[email] = s
}

func (a *App) Records(email string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.records[email]...)
}

func (a *App) authenticate(email, password string) (Account, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[email]
	return acc, ok && acc.Password == password
}

func (a *App) register(acc Account) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[acc.Email]; exists {
		return false
	}
	a.accounts[acc.Email] = acc
	return true
}

// tab - одна вкладка браузера со своим "localStorage".
type tab struct {
	app *App

	mu   sync.Mutex
	user *Account
}

func (t *tab) setUser(acc *Account) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user = acc
}

func (t *tab) currentUser() (Account, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.user == nil {
		return Account{}, false
	}
	return *t.user, true
}

// Open создает новую вкладку, подключенную к приложению.
func (a *App) Open(baseURL string) *browsertest.Document {
	t := &tab{app: a}
	doc := browsertest.New(baseURL)
	doc.Route("/", func(*browsertest.Document) {})
	doc.Route(pages.LoginPath, t.login)
	doc.Route(pages.SignupPath, t.signup)
	doc.Route(pages.DashboardPath, t.dashboard)
	return doc
}

func (t *tab) login(d *browsertest.Document) {
	d.Set(pages.LoginEmail, browsertest.Input())
	d.Set(pages.LoginPassword, browsertest.Input())
	d.Set(pages.LoginSignupLink, browsertest.Button("Criar conta", func(d *browsertest.Document) {
		d.Visit(pages.SignupPath)
	}))
	d.Set(pages.LoginBackLink, browsertest.Button("Voltar", func(d *browsertest.Document) {
		d.Visit("/")
	}))
	d.Set(pages.LoginSubmit, browsertest.Button("Entrar", func(d *browsertest.Document) {
		acc, ok := t.app.authenticate(d.Value(pages.LoginEmail), d.Value(pages.LoginPassword))
		if !ok {
			d.SetAfter(t.app.RenderDelay, pages.ErrorBanner, browsertest.Visible("Erro no login\nEmail ou senha incorretos. Tente novamente."))
			return
		}
		t.setUser(&acc)
		// router.push("/dashboard") после ответа API
		d.Later(t.app.RenderDelay, func() { d.Visit(pages.DashboardPath) })
	}))
}

func (t *tab) signup(d *browsertest.Document) {
	d.Set(pages.SignupName, browsertest.Input())
	d.Set(pages.SignupEmail, browsertest.Input())
	d.Set(pages.SignupPassword, browsertest.Input())
	d.Set(pages.SignupConfirm, browsertest.Input())
	d.Set(pages.SignupLoginLink, browsertest.Button("Fazer login", func(d *browsertest.Document) {
		d.Visit(pages.LoginPath)
	}))
	d.Set(pages.SignupSubmit, browsertest.Button("Criar conta", func(d *browsertest.Document) {
		acc := Account{
			Name:     d.Value(pages.SignupName),
			Email:    d.Value(pages.SignupEmail),
			Password: d.Value(pages.SignupPassword),
		}
		var problems []string
		if acc.Name == "" {
			problems = append(problems, "Nome é obrigatório")
		}
		if !strings.Contains(acc.Email, "@") {
			problems = append(problems, "Email inválido")
		}
		if len(acc.Password) < 6 {
			problems = append(problems, "Senha deve ter no mínimo 6 caracteres")
		} else if acc.Password != d.Value(pages.SignupConfirm) {
			problems = append(problems, "As senhas não coincidem")
		}
		if len(problems) > 0 {
			// только список p.text-red-600 в форме, без тоста
			d.SetAfter(t.app.RenderDelay, pages.SignupError, browsertest.Visible(strings.Join(problems, "\n")))
			return
		}
		if !t.app.register(acc) {
			const msg = "Este email já está cadastrado. Tente fazer login."
			d.SetAfter(t.app.RenderDelay, pages.SignupError, browsertest.Visible(msg))
			d.SetAfter(t.app.RenderDelay, pages.ErrorBanner, browsertest.Visible("Erro no cadastro\n"+msg))
			return
		}
		d.SetAfter(t.app.RenderDelay, pages.SignupSuccess, browsertest.Visible("Conta criada com sucesso!"))
	}))
}

func (t *tab) dashboard(d *browsertest.Document) {
	user, ok := t.currentUser()
	if !ok {
		// без пользователя в localStorage дашборд уводит на /login
		d.Visit(pages.LoginPath)
		return
	}

	d.Set(pages.DashboardUserName, browsertest.Visible(user.Name))
	d.Set(pages.DashboardUserMail, browsertest.Visible(user.Email))
	d.Set(pages.DashboardLogout, browsertest.Button("Sair", func(d *browsertest.Document) {
		t.setUser(nil)
		d.Visit("/")
	}))
	d.Set(pages.DashboardSettings, browsertest.Button("Configurações", func(d *browsertest.Document) {
		d.SetAfter(t.app.RenderDelay, pages.SettingsDialog, browsertest.Visible("Configurações Perfil Notificações"))
	}))
	d.Set(pages.NavButton(pages.SectionDashboard), browsertest.Button("Dashboard", func(d *browsertest.Document) {
		t.showTab(d, pages.SectionDashboard)
	}))
	d.Set(pages.NavButton(pages.SectionSchedule), browsertest.Button("Agendar Vacina", func(d *browsertest.Document) {
		t.showTab(d, pages.SectionSchedule)
	}))
	d.Set(pages.NavButton(pages.SectionHistory), browsertest.Button("Histórico", func(d *browsertest.Document) {
		t.showTab(d, pages.SectionHistory)
	}))
	t.showTab(d, pages.SectionDashboard)
}

var tabContent = []browser.Locator{
	pages.DashboardWelcome, pages.StatUpToDate, pages.StatUpcoming, pages.StatOverdue,
	pages.ScheduleHeading, pages.ScheduleVaccine, pages.ScheduleDate, pages.ScheduleLocation,
	pages.ScheduleNotes, pages.ScheduleSubmit, pages.ScheduleSuccess,
	pages.HistoryHeading, pages.HistoryItem, pages.HistoryEmpty,
}

// showTab меняет содержимое <main>, URL остается прежним.
func (t *tab) showTab(d *browsertest.Document, s pages.Section) {
	for _, loc := range tabContent {
		d.Remove(loc)
	}
	user, ok := t.currentUser()
	if !ok {
		return
	}

	switch s {
	case pages.SectionDashboard:
		d.SetAfter(t.app.RenderDelay, pages.DashboardWelcome, browsertest.Visible(user.Name))
		st := t.app.statsFor(user.Email)
		d.SetAfter(t.app.RenderDelay, pages.StatUpToDate, browsertest.Visible(t.app.statText(st.Applied)))
		d.SetAfter(t.app.RenderDelay, pages.StatUpcoming, browsertest.Visible(t.app.statText(st.Pending)))
		d.SetAfter(t.app.RenderDelay, pages.StatOverdue, browsertest.Visible(t.app.statText(st.Overdue)))

	case pages.SectionSchedule:
		d.SetAfter(t.app.RenderDelay, pages.ScheduleHeading, browsertest.Visible("Agendar Vacina"))
		d.Set(pages.ScheduleVaccine, &browsertest.Element{Visible: true, Options: t.app.Vaccines})
		d.Set(pages.ScheduleDate, browsertest.Input())
		d.Set(pages.ScheduleLocation, browsertest.Input())
		d.Set(pages.ScheduleNotes, browsertest.Input())
		d.Set(pages.ScheduleSubmit, browsertest.Button("Confirmar Agendamento", func(d *browsertest.Document) {
			t.submitSchedule(d, user)
		}))

	case pages.SectionHistory:
		d.SetAfter(t.app.RenderDelay, pages.HistoryHeading, browsertest.Visible("Histórico de Vacinação"))
		if t.app.BrokenHistory {
			return
		}
		if records := t.app.Records(user.Email); len(records) > 0 {
			// строки div.hover-lift с <h4>; первая совпадает с HistoryItem
			d.SetAfter(t.app.RenderDelay, pages.HistoryItem, browsertest.Visible(records[0]))
		} else {
			d.SetAfter(t.app.RenderDelay, pages.HistoryEmpty, browsertest.Visible("Nenhuma vacina registrada"))
		}
	}
}

func (t *tab) submitSchedule(d *browsertest.Document, user Account) {
	vaccine := d.Value(pages.ScheduleVaccine)
	location := d.Value(pages.ScheduleLocation)
	date, err := time.Parse("2006-01-02", d.Value(pages.ScheduleDate))
	today := t.app.Now().Truncate(24 * time.Hour)
	if vaccine == "" || location == "" || err != nil || date.Before(today) {
		// форма с required-полями не отправляется
		return
	}

	t.app.mu.Lock()
	t.app.records[user.Email] = append(t.app.records[user.Email], vaccine+" - Dose 1")
	t.app.mu.Unlock()

	d.SetAfter(t.app.RenderDelay, pages.ScheduleSuccess, browsertest.Visible("Vacina agendada com sucesso!"))
}

func (a *App) statsFor(email string) Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats[email]
}

func (a *App) statText(n int) string {
	if a.StatText != "" {
		return a.StatText
	}
	return strconv.Itoa(n)
}
