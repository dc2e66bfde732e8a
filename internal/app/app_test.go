package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	t.Setenv("CLEANSHEET_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("CLEANSHEET_SERVER_PORT", fmt.Sprintf("%d", freePort(t)))
	t.Setenv("CLEANSHEET_LOGGING_OUTPUT", "console")

	app, err := NewApplication(nil)
	require.NoError(t, err)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Service)
	assert.NotNil(t, app.Store)
	assert.NotNil(t, app.Metrics)
	assert.DirExists(t, app.Paths.ExportsDir)
	assert.DirExists(t, app.Paths.LogsDir)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx, cancel))

	url := fmt.Sprintf("http://localhost:%d/api/health", app.Config.Server.Port)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Stop(context.Background()))
}
