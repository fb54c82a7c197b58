package pages

import (
	"context"
	"fmt"

	"imunetrackE2E/internal/browser"
)

const SignupPath = "/cadastro"

var (
	SignupName      = browser.ByID("name")
	SignupEmail     = browser.ByID("email")
	SignupPassword  = browser.ByID("password")
	SignupConfirm   = browser.ByID("confirmPassword")
	SignupSubmit    = browser.ByXPath("//button[contains(text(),'Criar conta')]")
	SignupSuccess   = browser.ByXPath("//*[contains(text(),'Conta criada com sucesso')]")
	SignupLoginLink = browser.ByXPath("//a[contains(text(),'Fazer login')]")
	// Ошибки валидации рисуются списком над полями (p.text-red-600),
	// ошибка API дублируется destructive-тостом.
	SignupError = browser.ByXPath("//form//p[contains(@class,'text-red-600')] | //*[contains(@class,'destructive')]")
)

// Registration - данные формы регистрации. ConfirmPassword задается
// отдельно, чтобы можно было проверить несовпадение паролей.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type Signup struct {
	s *browser.Session
}

func NewSignup(s *browser.Session) *Signup {
	return &Signup{s: s}
}

func (p *Signup) Open(ctx context.Context) error {
	if err := p.s.Navigate(ctx, SignupPath); err != nil {
		return err
	}
	if !p.IsOnSignupPage(ctx) {
		return fmt.Errorf("signup: %w", ErrNotOnPage)
	}
	return nil
}

// IsOnSignupPage - ориентир: поле подтверждения пароля есть только здесь.
func (p *Signup) IsOnSignupPage(ctx context.Context) bool {
	return p.s.IsVisible(ctx, SignupConfirm, p.s.Timeouts().Element)
}

func (p *Signup) Submit(ctx context.Context, r Registration) error {
	fields := []struct {
		loc  browser.Locator
		text string
	}{
		{SignupName, r.Name},
		{SignupEmail, r.Email},
		{SignupPassword, r.Password},
		{SignupConfirm, r.ConfirmPassword},
	}
	for _, f := range fields {
		if err := p.s.TypeText(ctx, f.loc, f.text); err != nil {
			return err
		}
	}
	return p.s.Click(ctx, SignupSubmit)
}

func (p *Signup) HasSuccessMessage(ctx context.Context) bool {
	return p.s.IsVisible(ctx, SignupSuccess, p.s.Timeouts().Element)
}

func (p *Signup) HasErrorBanner(ctx context.Context) bool {
	return p.s.IsVisible(ctx, SignupError, p.s.Timeouts().Short)
}

func (p *Signup) ErrorText(ctx context.Context) (string, error) {
	return p.s.GetText(ctx, SignupError, p.s.Timeouts().Element)
}

func (p *Signup) GoToLogin(ctx context.Context) (*Login, error) {
	if err := p.s.Click(ctx, SignupLoginLink); err != nil {
		return nil, err
	}
	login := NewLogin(p.s)
	if !p.s.IsVisible(ctx, LoginEmail, p.s.Timeouts().Element) || !login.IsOnLoginPage() {
		return nil, fmt.Errorf("login: %w", ErrNotOnPage)
	}
	return login, nil
}
