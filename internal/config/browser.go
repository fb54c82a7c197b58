package config

import "imunetrackE2E/internal/browser"

// BrowserConfig - параметры запуска браузера для browser.Launcher.
func (c *Cfg) BrowserConfig() browser.Config {
	return browser.Config{
		Engine:        browser.Engine(c.Browser.Engine),
		Headless:      c.Browser.Headless,
		BrowsersPath:  c.Browser.BrowsersPath,
		Display:       c.Browser.Display,
		RemoteURL:     c.Browser.RemoteURL,
		Locale:        c.Browser.Locale,
		ActionTimeout: c.Timeouts.Element,
	}
}

func (c *Cfg) BrowserTimeouts() browser.Timeouts {
	return browser.Timeouts{
		Element:  c.Timeouts.Element,
		Short:    c.Timeouts.Short,
		Navigate: c.Timeouts.Navigate,
		Poll:     c.Timeouts.Poll,
	}
}
