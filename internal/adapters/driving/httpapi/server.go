// Package httpapi serves the vetdesk REST API.
//
// All endpoints live under /api/v1 and speak JSON. Tenant-scoped routes take
// the tenant ID or slug in the path and are rate limited per tenant. Errors
// use the envelope {"error": {"code", "message", "field"}}.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// APIPrefix is the path prefix of every versioned endpoint.
const APIPrefix = "/api/v1"

// Server is the REST API server.
type Server struct {
	ports   *Ports
	addr    string
	log     *zap.SugaredLogger
	limiter *tenantLimiter
	mux     *http.ServeMux
	handler http.Handler
}

// handlerFunc is an HTTP handler that returns its error for the server to write.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// tenantHandlerFunc is a handler bound to the tenant named in the path.
type tenantHandlerFunc func(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error

// NewServer creates a REST server with the given ports and settings.
func NewServer(ports *Ports, cfg domain.ServerSettings) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:   ports,
		addr:    cfg.Addr,
		log:     logger.Named("http"),
		limiter: newTenantLimiter(cfg.RateLimit, cfg.Burst),
	}

	s.mux = http.NewServeMux()
	s.registerRoutes(s.mux)
	s.handler = s.middleware()
	return s, nil
}

// middleware wraps the routes with panic recovery, request logging and the body limit.
func (s *Server) middleware() http.Handler {
	return recoverPanics(s.log, logRequests(s.log, limitBody(s.mux)))
}

// Mount serves h under pattern, behind the same logging and recovery as the
// API. Call it before Run.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("REST API listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	handle := func(pattern string, h handlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+APIPrefix+path, s.wrap(h))
	}
	tenant := func(pattern string, h tenantHandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+APIPrefix+"/tenants/{tenant}"+path, s.wrap(s.withTenant(h)))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handle("GET /companies", s.listCompanies)
	handle("POST /companies", s.createCompany)
	handle("GET /companies/{id}", s.getCompany)
	handle("PUT /companies/{id}", s.updateCompany)
	handle("DELETE /companies/{id}", s.deleteCompany)

	handle("GET /tenants", s.listTenants)
	handle("POST /tenants", s.createTenant)
	tenant("GET ", s.getTenant)
	tenant("PUT ", s.updateTenant)
	tenant("DELETE ", s.deleteTenant)

	tenant("GET /clients", s.listClients)
	tenant("POST /clients", s.createClient)
	tenant("GET /clients/{id}", s.getClient)
	tenant("PUT /clients/{id}", s.updateClient)
	tenant("DELETE /clients/{id}", s.deleteClient)
	tenant("GET /clients/{id}/pets", s.listClientPets)
	tenant("POST /clients/{id}/pets", s.addPet)
	tenant("GET /pets/{id}", s.getPet)
	tenant("PUT /pets/{id}", s.updatePet)
	tenant("DELETE /pets/{id}", s.deletePet)

	staffResource(s.ports.Staff).routes(tenant, "/staff")
	roomResource(s.ports.Rooms).routes(tenant, "/rooms")
	serviceResource(s.ports.Catalog).routes(tenant, "/services")

	tenant("POST /availability", s.checkAvailability)
	tenant("GET /appointments", s.listAppointments)
	tenant("POST /appointments", s.bookAppointment)
	tenant("GET /appointments/{id}", s.getAppointment)
	tenant("POST /appointments/{id}/status", s.transitionAppointment)
	tenant("POST /appointments/{id}/reschedule", s.rescheduleAppointment)

	inventoryResource(s.ports.Inventory).routes(tenant, "/inventory")
	tenant("GET /inventory/low-stock", s.lowStock)
	tenant("POST /inventory/import", s.importInventory)
	tenant("POST /inventory/adjust", s.adjustInventory)

	receiptTemplateResource(s.ports.Receipts).routes(tenant, "/receipt-templates")
	tenant("POST /receipt-templates/{id}/default", s.setDefaultReceiptTemplate)
	tenant("POST /receipt-templates/{id}/render", s.renderReceipt)
	tenant("GET /receipt-templates/{id}/preview", s.previewReceipt)

	tenant("GET /routes", s.listRoutes)
	tenant("POST /routes", s.createRoute)
	tenant("GET /routes/{id}", s.getRoute)
	tenant("PUT /routes/{id}", s.updateRoute)
	tenant("DELETE /routes/{id}", s.deleteRoute)
	tenant("POST /routes/{id}/reorder", s.reorderRoute)

	handle("GET /postal-codes", s.searchPostalCodes)
	handle("GET /postal-codes/{code}", s.lookupPostalCode)

	mux.Handle("/", s.wrap(func(http.ResponseWriter, *http.Request) error {
		return &statusError{status: http.StatusNotFound, code: "not_found", msg: "no such endpoint"}
	}))
}

// wrap adapts a handlerFunc, writing any returned error.
func (s *Server) wrap(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status, _ := toAPIError(err)
			if status >= 500 && status != http.StatusNotImplemented && status != http.StatusServiceUnavailable {
				s.log.Errorw("request failed", "path", r.URL.Path, "error", err)
			}
			writeError(w, err)
		}
	})
}

// withTenant resolves the {tenant} path value and applies its rate limit.
func (s *Server) withTenant(h tenantHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		tenant, err := s.ports.Tenants.Resolve(r.Context(), r.PathValue("tenant"))
		if err != nil {
			return err
		}
		if err := s.limiter.allow(w, tenant.ID); err != nil {
			return err
		}
		return h(w, r, tenant)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := toAPIError(err)
	writeJSON(w, status, errorBody{Error: body})
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("query %s: not a number", name))
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest(fmt.Sprintf("query %s: not a boolean", name))
	}
	return b, nil
}

func notImplemented(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotImplemented)
}
