package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRodPageTimeoutIsReleased(t *testing.T) {
	d := &RodDriver{page: &rod.Page{}, timeout: time.Minute}

	page, cancel := d.p(context.Background())
	pctx := page.GetContext()
	deadline, ok := pctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	assert.NoError(t, pctx.Err())

	cancel()
	assert.ErrorIs(t, pctx.Err(), context.Canceled)
}

func TestRodPageTimeoutFollowsParent(t *testing.T) {
	d := &RodDriver{page: &rod.Page{}, timeout: time.Minute}
	parent, stop := context.WithCancel(context.Background())

	page, cancel := d.withTimeout(parent, time.Hour)
	defer cancel()
	stop()

	assert.ErrorIs(t, page.GetContext().Err(), context.Canceled)
}
