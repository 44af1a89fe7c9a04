// Package oauth runs the loopback redirect endpoint used when connecting the
// Google Calendar mirror, and opens the consent page in a browser.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CallbackPath is the path Google redirects to after consent.
const CallbackPath = "/callback"

// Result is what the provider sent back to the redirect URI.
// State is checked by the calendar auth service, not here.
type Result struct {
	State string
	Code  string
}

// CallbackServer listens on 127.0.0.1 for a single OAuth redirect.
type CallbackServer struct {
	mu       sync.Mutex
	port     int
	results  chan Result
	errs     chan error
	server   *http.Server
	listener net.Listener
}

// NewCallbackServer creates a callback server. Port 0 picks a free port on Start.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:    port,
		results: make(chan Result, 1),
		errs:    make(chan error, 1),
	}
}

// Start begins listening. It returns once the listener is bound.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("callback server already started")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CallbackPath, s.handleCallback)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.report(err)
		}
	}()
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if e := q.Get("error"); e != "" {
		desc := q.Get("error_description")
		s.report(fmt.Errorf("authorization denied: %s %s", e, desc))
		w.WriteHeader(http.StatusBadRequest)
		renderPage(w, "No se pudo conectar el calendario", desc)
		return
	}

	code := q.Get("code")
	if code == "" {
		s.report(errors.New("callback carried no authorization code"))
		w.WriteHeader(http.StatusBadRequest)
		renderPage(w, "No se pudo conectar el calendario", "Google no devolvió un código de autorización.")
		return
	}

	select {
	case s.results <- Result{State: q.Get("state"), Code: code}:
	default:
	}
	renderPage(w, "Calendario conectado", "Puedes cerrar esta ventana y volver a Vetdesk.")
}

func (s *CallbackServer) report(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// Wait blocks until the redirect arrives, the provider reports an error, or
// ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-s.results:
		return res, nil
	case err := <-s.errs:
		return Result{}, err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts the server down. It is safe to call more than once.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Port returns the port the server is bound to.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI is the URI to register with the OAuth client.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.Port(), CallbackPath)
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Vetdesk</title>
<style>
body { font-family: system-ui, sans-serif; background: #f4f7f5; display: grid; place-items: center; height: 100vh; margin: 0; }
main { background: #fff; border: 1px solid #cfd8d3; border-radius: 12px; padding: 40px 56px; text-align: center; }
h1 { color: #1f4d3a; font-size: 22px; margin: 0 0 8px; }
p { color: #5b6b63; margin: 0; }
</style>
</head>
<body><main><h1>{{.Title}}</h1><p>{{.Message}}</p></main></body>
</html>
`))

func renderPage(w http.ResponseWriter, title, message string) {
	_ = page.Execute(w, struct{ Title, Message string }{title, message})
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// FindAvailablePort returns the first port in [startPort, endPort] that can be bound on 127.0.0.1.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			l.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
