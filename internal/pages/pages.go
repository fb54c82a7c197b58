// Package pages содержит Page Object для экранов ImuneTrack.
// Каждый Page Object получает общую *browser.Session и не владеет ею.
package pages

import (
	"errors"
	"regexp"

	"imunetrackE2E/internal/browser"
)

var (
	// ErrNotOnPage - ожидаемый ориентир экрана не появился.
	ErrNotOnPage = errors.New("page landmark not visible")
	// ErrUnexpectedContent - элемент найден, но его содержимое не проходит проверку.
	ErrUnexpectedContent = errors.New("unexpected element content")
)

// ErrorBanner - тост с variant "destructive". Вход показывает ошибки только так;
// у регистрации свой локатор, см. SignupError.
var ErrorBanner = browser.ByXPath("//*[contains(@class,'destructive')]")

var digits = regexp.MustCompile(`^[0-9]+$`)
