package pages

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"imunetrackE2E/internal/browser"
)

const LoginPath = "/login"

var (
	LoginEmail      = browser.ByID("email")
	LoginPassword   = browser.ByID("password")
	LoginSubmit     = browser.ByXPath("//button[contains(text(),'Entrar')]")
	LoginSignupLink = browser.ByXPath("//a[contains(text(),'Criar conta')]")
	LoginBackLink   = browser.ByXPath("//a[contains(text(),'Voltar')]")
)

type Credentials struct {
	Email    string
	Password string
}

type Login struct {
	s *browser.Session
}

func NewLogin(s *browser.Session) *Login {
	return &Login{s: s}
}

// Open загружает /login и ждет поле email.
func (p *Login) Open(ctx context.Context) error {
	if err := p.s.Navigate(ctx, LoginPath); err != nil {
		return err
	}
	if !p.s.IsVisible(ctx, LoginEmail, p.s.Timeouts().Element) {
		return fmt.Errorf("login: %w", ErrNotOnPage)
	}
	return nil
}

// Submit заполняет форму и нажимает "Entrar". Результат входа не проверяет.
func (p *Login) Submit(ctx context.Context, c Credentials) error {
	if err := p.s.TypeText(ctx, LoginEmail, c.Email); err != nil {
		return err
	}
	if err := p.s.TypeText(ctx, LoginPassword, c.Password); err != nil {
		return err
	}
	return p.s.Click(ctx, LoginSubmit)
}

// HasErrorBanner - появился ли тост ошибки в пределах короткого таймаута.
func (p *Login) HasErrorBanner(ctx context.Context) bool {
	return p.s.IsVisible(ctx, ErrorBanner, p.s.Timeouts().Short)
}

func (p *Login) ErrorText(ctx context.Context) (string, error) {
	return p.s.GetText(ctx, ErrorBanner, p.s.Timeouts().Element)
}

// IsOnLoginPage проверяет путь текущего адреса, без ожидания.
func (p *Login) IsOnLoginPage() bool {
	return pathHasPrefix(p.s.CurrentLocation(), LoginPath)
}

// GoToSignup переходит по ссылке "Criar conta" и подтверждает прибытие.
func (p *Login) GoToSignup(ctx context.Context) (*Signup, error) {
	if err := p.s.Click(ctx, LoginSignupLink); err != nil {
		return nil, err
	}
	signup := NewSignup(p.s)
	if !signup.IsOnSignupPage(ctx) {
		return nil, fmt.Errorf("signup: %w", ErrNotOnPage)
	}
	return signup, nil
}

func pathHasPrefix(rawURL, prefix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, prefix)
}
