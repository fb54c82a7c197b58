package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorResolve(t *testing.T) {
	tests := []struct {
		name      string
		loc       Locator
		wantExpr  string
		wantXPath bool
		selector  string
	}{
		{"id", ByID("email"), `[id="email"]`, false, `css=[id="email"]`},
		{"id with quote", ByID(`a"b`), `[id="a\"b"]`, false, `css=[id="a\"b"]`},
		{"css", ByCSS("select[name='vaccine']"), "select[name='vaccine']", false, "css=select[name='vaccine']"},
		{"xpath", ByXPath("//button[contains(text(),'Entrar')]"), "//button[contains(text(),'Entrar')]", true, "xpath=//button[contains(text(),'Entrar')]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, xpath := tt.loc.Resolve()
			assert.Equal(t, tt.wantExpr, expr)
			assert.Equal(t, tt.wantXPath, xpath)
			assert.Equal(t, tt.selector, tt.loc.Selector())
		})
	}
}

func TestLocatorIsComparable(t *testing.T) {
	m := map[Locator]int{ByID("email"): 1}
	assert.Equal(t, 1, m[ByID("email")])
	assert.NotEqual(t, ByID("email"), ByCSS("email"))
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "id=password", ByID("password").String())
	assert.Equal(t, "xpath=//nav", ByXPath("//nav").String())
}

func TestLocatorValidate(t *testing.T) {
	assert.NoError(t, ByID("email").Validate())
	assert.NoError(t, ByXPath("(//button)[1]").Validate())
	assert.NoError(t, ByCSS(".vaccine-history-item").Validate())

	assert.Error(t, ByID("  ").Validate())
	assert.Error(t, ByCSS("").Validate())
	assert.Error(t, ByXPath("button").Validate())
	assert.Error(t, ByCSS("http://localhost:3000/login").Validate())
	assert.Error(t, Locator{strategy: Strategy(42), value: "x"}.Validate())
}

func TestUnknownStrategyPanics(t *testing.T) {
	require.Panics(t, func() {
		Locator{strategy: Strategy(42), value: "x"}.Resolve()
	})
}

func TestByText(t *testing.T) {
	assert.Equal(t, "//button[contains(., 'Sair')]", ByText("button", "Sair").Value())
	assert.Equal(t, "//*[contains(., 'Histórico')]", ByText("", "Histórico").Value())
	assert.Equal(t, StrategyXPath, ByText("h2", "x").Strategy())
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Olá'", xpathLiteral("Olá"))
	assert.Equal(t, `"d'Ávila"`, xpathLiteral("d'Ávila"))
	assert.Equal(t, `concat('a"b', "'", 'c')`, xpathLiteral(`a"b'c`))
}
