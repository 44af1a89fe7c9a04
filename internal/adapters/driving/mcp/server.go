package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/vetdesk/internal/logger"
)

// MountPath is where `vetdesk serve --mcp` exposes the streamable handler.
const MountPath = "/mcp"

const instructions = `Vetdesk is the front desk of one or more veterinary clinics.
Every tool takes a "tenant" (clinic slug or ID); read vetdesk://tenants to list them
and vetdesk://tenants/{tenant}/services for bookable services and their IDs.
Call check_availability before book_appointment. Times are RFC3339; a time without
an offset is read in the clinic's timezone.`

// Server exposes booking tools and clinic resources over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
	log    *zap.SugaredLogger
	now    func() time.Time
}

// Option configures a Server.
type Option func(*mcp.Implementation)

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(impl *mcp.Implementation) {
		if v != "" {
			impl.Version = v
		}
	}
}

// NewServer registers the tools and resources the ports allow. Tenants and
// Appointments are required; lookup_postal_code and the services resource
// are skipped when their ports are nil.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{Name: "vetdesk", Version: "dev"}
	for _, opt := range opts {
		opt(impl)
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		log:    logger.Named("mcp"),
		now:    time.Now,
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves one client over stdio until ctx is cancelled or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler serves streamable HTTP sessions. It can be mounted on another mux.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP listens on addr and serves until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts streamable HTTP connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnw("mcp http shutdown", "error", err)
		}
	})
	defer stop()

	s.log.Infow("mcp http listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
