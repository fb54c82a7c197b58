// Package browsertest provides an in-memory browser.Driver for tests of the
// wait engine, page objects and scenarios without a real browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"imunetrackE2E/internal/browser"
)

// Element is the rendered state of one element plus its click behaviour.
type Element struct {
	Visible  bool
	Disabled bool
	Text     string
	Value    string
	// Options lists the choices of a <select>.
	Options []string
	OnClick func(d *Document)
}

// Visible returns a visible, enabled element with the given text.
func Visible(text string) *Element {
	return &Element{Visible: true, Text: text}
}

// Hidden returns an element that is in the DOM but not rendered.
func Hidden(text string) *Element {
	return &Element{Text: text}
}

// Button returns a visible element that runs onClick when clicked.
func Button(text string, onClick func(d *Document)) *Element {
	return &Element{Visible: true, Text: text, OnClick: onClick}
}

// Input returns a visible, enabled, empty field.
func Input() *Element {
	return &Element{Visible: true}
}

// Document is a fake browser tab. Routes render a screen for a URL path.
// Safe for concurrent use: delayed renders run on timers.
type Document struct {
	mu       sync.Mutex
	baseURL  string
	url      string
	ready    string
	elements map[browser.Locator]*Element
	routes   map[string]func(d *Document)
	timers   []*time.Timer

	probes int
	clicks int
	fills  int
	closed bool

	GotoErr error
}

func New(baseURL string) *Document {
	return &Document{
		baseURL:  strings.TrimRight(baseURL, "/"),
		url:      "about:blank",
		ready:    "complete",
		elements: make(map[browser.Locator]*Element),
		routes:   make(map[string]func(d *Document)),
	}
}

// Route registers the render function for a path.
func (d *Document) Route(path string, render func(d *Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[path] = render
}

// Set places el at loc, replacing anything there.
func (d *Document) Set(loc browser.Locator, el *Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc] = el
}

// SetAfter places el at loc once delay elapses, imitating async rendering.
func (d *Document) SetAfter(delay time.Duration, loc browser.Locator, el *Element) {
	d.after(delay, func() { d.elements[loc] = el })
}

// RemoveAfter drops loc once delay elapses.
func (d *Document) RemoveAfter(delay time.Duration, loc browser.Locator) {
	d.after(delay, func() { delete(d.elements, loc) })
}

func (d *Document) after(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := time.AfterFunc(delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.closed {
			fn()
		}
	})
	d.timers = append(d.timers, t)
}

// Later выполняет fn после delay, если вкладка еще открыта. В отличие от
// SetAfter, fn вызывается без блокировки и может сам менять документ.
func (d *Document) Later(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := time.AfterFunc(delay, func() {
		if !d.IsClosed() {
			fn()
		}
	})
	d.timers = append(d.timers, t)
}

func (d *Document) Remove(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
}

// Clear removes every element, as on a full page change.
func (d *Document) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = make(map[browser.Locator]*Element)
}

// SetURL changes the location without rendering, as client-side routing does.
func (d *Document) SetURL(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = d.baseURL + path
}

// SetReadyState overrides document.readyState.
func (d *Document) SetReadyState(state string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = state
}

// Visit renders the route for path as if the app routed there.
func (d *Document) Visit(path string) {
	d.mu.Lock()
	render := d.routes[path]
	d.url = d.baseURL + path
	d.elements = make(map[browser.Locator]*Element)
	d.mu.Unlock()

	if render != nil {
		render(d)
	}
}

// Value returns the current value at loc, or "" when absent.
func (d *Document) Value(loc browser.Locator) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[loc]; ok {
		return el.Value
	}
	return ""
}

func (d *Document) Probes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.probes
}

func (d *Document) Clicks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clicks
}

func (d *Document) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// browser.Driver

func (d *Document) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if d.GotoErr != nil {
		return d.GotoErr
	}
	path := strings.TrimPrefix(url, d.baseURL)
	if path == "" {
		path = "/"
	}
	d.Visit(path)
	return nil
}

func (d *Document) ReadyState(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready, nil
}

func (d *Document) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *Document) Probe(ctx context.Context, loc browser.Locator) (browser.ElementState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.probes++
	if d.closed {
		return browser.ElementState{}, browser.ErrSessionClosed
	}
	el, ok := d.elements[loc]
	if !ok {
		return browser.ElementState{}, nil
	}
	return browser.ElementState{
		Found:   true,
		Visible: el.Visible,
		Enabled: !el.Disabled,
		Text:    el.Text,
		Value:   el.Value,
	}, nil
}

func (d *Document) Click(ctx context.Context, loc browser.Locator) error {
	d.mu.Lock()
	el, ok := d.elements[loc]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, loc)
	}
	d.clicks++
	onClick := el.OnClick
	d.mu.Unlock()

	if onClick != nil {
		onClick(d)
	}
	return nil
}

func (d *Document) Fill(ctx context.Context, loc browser.Locator, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[loc]
	if !ok {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, loc)
	}
	d.fills++
	el.Value = text
	return nil
}

func (d *Document) SelectOption(ctx context.Context, loc browser.Locator, option string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[loc]
	if !ok {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, loc)
	}
	for _, o := range el.Options {
		if o == option {
			el.Value = option
			return nil
		}
	}
	return fmt.Errorf("option %q not in select %s", option, loc)
}

func (d *Document) Screenshot(ctx context.Context, path string) error {
	return nil
}

func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for _, t := range d.timers {
		t.Stop()
	}
	return nil
}
