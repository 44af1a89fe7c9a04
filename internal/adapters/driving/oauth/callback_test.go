//nolint:noctx // http.Get is fine against a loopback test server
package oauth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startServer(t *testing.T) *CallbackServer {
	t.Helper()
	s := NewCallbackServer(0)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func get(t *testing.T, s *CallbackServer, query url.Values) (int, string) {
	t.Helper()
	resp, err := http.Get(s.RedirectURI() + "?" + query.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCallbackServer_PicksPort(t *testing.T) {
	s := startServer(t)
	assert.NotZero(t, s.Port())
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/callback", s.Port()), s.RedirectURI())
}

func TestCallbackServer_StartTwice(t *testing.T) {
	s := startServer(t)
	assert.Error(t, s.Start())
}

func TestCallbackServer_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	s := NewCallbackServer(l.Addr().(*net.TCPAddr).Port)
	err = s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestCallbackServer_DeliversCodeAndState(t *testing.T) {
	s := startServer(t)

	status, body := get(t, s, url.Values{"code": {"4/abc"}, "state": {"st-1"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Calendario conectado")

	res, err := s.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, Result{State: "st-1", Code: "4/abc"}, res)
}

func TestCallbackServer_ProviderError(t *testing.T) {
	s := startServer(t)

	status, body := get(t, s, url.Values{
		"error":             {"access_denied"},
		"error_description": {"<script>alert(1)</script>"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")

	_, err := s.Wait(waitCtx(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_MissingCode(t *testing.T) {
	s := startServer(t)

	status, _ := get(t, s, url.Values{"state": {"st-1"}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := s.Wait(waitCtx(t))
	assert.ErrorContains(t, err, "no authorization code")
}

func TestCallbackServer_OnlyGetCallback(t *testing.T) {
	s := startServer(t)

	resp, err := http.Post(s.RedirectURI(), "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/", s.Port()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallbackServer_WaitHonoursContext(t *testing.T) {
	s := NewCallbackServer(0)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackServer_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := NewCallbackServer(0)
	assert.NoError(t, s.Stop())
	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}

func TestFindAvailablePort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	busy := l.Addr().(*net.TCPAddr).Port
	defer l.Close()

	t.Run("skips busy port", func(t *testing.T) {
		_, err := FindAvailablePort(busy, busy)
		assert.ErrorContains(t, err, "no available port")
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := FindAvailablePort(9100, 9000)
		assert.Error(t, err)
	})

	t.Run("finds a free port", func(t *testing.T) {
		port, err := FindAvailablePort(50000, 50100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, port, 50000)
		assert.LessOrEqual(t, port, 50100)
	})
}
