package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"imunetrackE2E/internal/browser"
)

// WaitForApp опрашивает baseURL, пока приложение не ответит статусом ниже 500.
// Next.js в dev-режиме поднимается десятки секунд, поэтому timeout большой.
func WaitForApp(ctx context.Context, client *http.Client, baseURL string, timeout, interval time.Duration, log *zap.Logger) error {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}

	var lastStatus int
	out := browser.WaitUntil(ctx, func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return false, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return false, err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode
		return resp.StatusCode < http.StatusInternalServerError, nil
	}, timeout, interval)

	if !out.Satisfied {
		if out.Err != nil {
			return fmt.Errorf("%w: приложение %s не отвечает за %s: %v", ErrSetupFailed, baseURL, timeout, out.Err)
		}
		return fmt.Errorf("%w: приложение %s отвечает статусом %d", ErrSetupFailed, baseURL, lastStatus)
	}
	log.Info("приложение доступно", zap.String("url", baseURL), zap.Int("polls", out.Polls), zap.Duration("elapsed", out.Elapsed))
	return nil
}

type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiError struct {
	Detail json.RawMessage `json:"detail"`
}

// RegisterAccount создает аккаунт через POST {apiURL}/auth/register.
// Уже существующий аккаунт считается успехом: повторные запуски не должны падать.
func RegisterAccount(ctx context.Context, client *http.Client, apiURL string, acc Account) error {
	if client == nil {
		client = http.DefaultClient
	}
	body, err := json.Marshal(acc)
	if err != nil {
		return err
	}

	url := strings.TrimRight(apiURL, "/") + "/auth/register"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: регистрация %s: %v", ErrSetupFailed, acc.Email, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return nil
	case resp.StatusCode == http.StatusBadRequest && alreadyRegistered(respBody):
		return nil
	default:
		return fmt.Errorf("%w: регистрация %s: HTTP %d: %s", ErrSetupFailed, acc.Email, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
}

// alreadyRegistered распознает ответ FastAPI {"detail": "Email já cadastrado"}.
func alreadyRegistered(body []byte) bool {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	detail := strings.ToLower(string(e.Detail))
	for _, marker := range []string{"cadastrado", "already", "exist"} {
		if strings.Contains(detail, marker) {
			return true
		}
	}
	return false
}
