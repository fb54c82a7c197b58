// Package fixture готовит сессии для сценариев: запуск браузера, вход под
// тестовым аккаунтом и гарантированное закрытие.
package fixture

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"imunetrackE2E/internal/browser"
	"imunetrackE2E/internal/pages"
)

// ErrSetupFailed - сессию не удалось подготовить. Это не провал сценария.
var ErrSetupFailed = errors.New("session setup failed")

// Launcher запускает новый изолированный браузер.
type Launcher interface {
	Launch(ctx context.Context) (*browser.Session, error)
}

type LauncherFunc func(ctx context.Context) (*browser.Session, error)

func (f LauncherFunc) Launch(ctx context.Context) (*browser.Session, error) {
	return f(ctx)
}

// Factory выдает сессию, уже авторизованную в приложении.
type Factory interface {
	CreateAuthenticatedSession(ctx context.Context) (*browser.Session, error)
}

// LoginFactory авторизуется через форму входа, как это сделал бы пользователь.
type LoginFactory struct {
	launcher Launcher
	creds    pages.Credentials
	log      *zap.Logger
}

func NewLoginFactory(l Launcher, creds pages.Credentials, log *zap.Logger) *LoginFactory {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginFactory{launcher: l, creds: creds, log: log}
}

func (f *LoginFactory) CreateAuthenticatedSession(ctx context.Context) (*browser.Session, error) {
	if f.creds.Email == "" || f.creds.Password == "" {
		return nil, fmt.Errorf("%w: не заданы учетные данные тестового аккаунта", ErrSetupFailed)
	}

	s, err := f.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: запуск браузера: %v", ErrSetupFailed, err)
	}

	if err := f.login(ctx, s); err != nil {
		if cerr := s.Close(); cerr != nil {
			f.log.Warn("не удалось закрыть сессию после ошибки входа", zap.Error(cerr))
		}
		return nil, err
	}

	f.log.Debug("сессия авторизована", zap.String("email", f.creds.Email))
	return s, nil
}

func (f *LoginFactory) login(ctx context.Context, s *browser.Session) error {
	login := pages.NewLogin(s)
	if err := login.Open(ctx); err != nil {
		return fmt.Errorf("%w: открытие /login: %v", ErrSetupFailed, err)
	}
	if err := login.Submit(ctx, f.creds); err != nil {
		return fmt.Errorf("%w: отправка формы входа: %v", ErrSetupFailed, err)
	}

	if !pages.NewDashboard(s).IsAuthenticatedView(ctx) {
		reason := "дашборд не появился"
		if login.HasErrorBanner(ctx) {
			if text, err := login.ErrorText(ctx); err == nil {
				reason = text
			}
		}
		return fmt.Errorf("%w: вход под %s: %s", ErrSetupFailed, f.creds.Email, reason)
	}
	return nil
}

// Acquire создает авторизованную сессию, передает ее в fn и закрывает
// на любом пути выхода, включая панику внутри fn.
func Acquire(ctx context.Context, f Factory, fn func(s *browser.Session) error) (err error) {
	s, err := f.CreateAuthenticatedSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("закрытие сессии: %w", cerr)
		}
	}()
	return fn(s)
}
