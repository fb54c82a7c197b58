package pages

import (
	"context"
	"time"

	"imunetrackE2E/internal/browser"
)

var (
	ScheduleHeading  = browser.ByXPath("//main//h2[contains(.,'Agendar Vacina')]")
	ScheduleVaccine  = browser.ByCSS("select[name='vaccine']")
	ScheduleDate     = browser.ByCSS("input[name='date']")
	ScheduleLocation = browser.ByCSS("input[name='location']")
	ScheduleNotes    = browser.ByCSS("textarea[name='notes']")
	ScheduleSubmit   = browser.ByXPath("//button[contains(.,'Confirmar Agendamento')]")
	ScheduleSuccess  = browser.ByXPath("//*[contains(text(),'Vacina agendada com sucesso')]")
)

// Appointment - данные формы записи на вакцинацию.
type Appointment struct {
	Vaccine  string
	Date     time.Time
	Location string
	Notes    string
}

// DateValue - значение для input[type=date]: ISO, независимо от локали.
func (a Appointment) DateValue() string {
	return a.Date.Format("2006-01-02")
}

type Schedule struct {
	s *browser.Session
}

func NewSchedule(s *browser.Session) *Schedule {
	return &Schedule{s: s}
}

func (p *Schedule) IsOnSchedulePage(ctx context.Context) bool {
	return p.s.IsVisible(ctx, ScheduleHeading, p.s.Timeouts().Element)
}

// Schedule заполняет форму и отправляет ее. Notes необязательны.
func (p *Schedule) Schedule(ctx context.Context, a Appointment) error {
	if err := p.s.SelectOption(ctx, ScheduleVaccine, a.Vaccine); err != nil {
		return err
	}
	if err := p.s.TypeText(ctx, ScheduleDate, a.DateValue()); err != nil {
		return err
	}
	if err := p.s.TypeText(ctx, ScheduleLocation, a.Location); err != nil {
		return err
	}
	if a.Notes != "" {
		if err := p.s.TypeText(ctx, ScheduleNotes, a.Notes); err != nil {
			return err
		}
	}
	return p.s.Click(ctx, ScheduleSubmit)
}

func (p *Schedule) HasSuccessMessage(ctx context.Context) bool {
	return p.s.IsVisible(ctx, ScheduleSuccess, p.s.Timeouts().Element)
}
