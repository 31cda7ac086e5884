// Package server exposes the HTTP and WebSocket API: public auth endpoints,
// role-gated surgery endpoints, the simulator streaming endpoint, and the
// operational endpoints.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"surgsim-platform/backend/internal/authz"
	"surgsim-platform/backend/internal/observe"
	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/server/middleware"
	surgeryservice "surgsim-platform/backend/internal/surgery/service"
	userservice "surgsim-platform/backend/internal/user/service"
)

// Server is the main HTTP server for the simulator backend API.
type Server struct {
	auth       *userservice.AuthService
	surgeries  *surgeryservice.SurgeryService
	tokens     *security.TokenProvider
	users      middleware.UserGetter
	authorizer *authz.Authorizer
	ws         http.Handler
	gatherer   prometheus.Gatherer
	emitter    observe.EventEmitter
	validate   *validator.Validate
	mux        *http.ServeMux
}

// New creates a Server with all routes registered. ws is the simulator
// streaming handler; gatherer feeds the metrics endpoint.
func New(
	auth *userservice.AuthService,
	surgeries *surgeryservice.SurgeryService,
	tokens *security.TokenProvider,
	users middleware.UserGetter,
	authorizer *authz.Authorizer,
	ws http.Handler,
	gatherer prometheus.Gatherer,
	emitter observe.EventEmitter,
) *Server {
	s := &Server{
		auth:       auth,
		surgeries:  surgeries,
		tokens:     tokens,
		users:      users,
		authorizer: authorizer,
		ws:         ws,
		gatherer:   gatherer,
		emitter:    emitter,
		validate:   newRequestValidator(),
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// Auth (public)
	s.mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Surgeries (authenticated, role-gated)
	s.mux.Handle("GET /api/v1/surgeries/{id}/trajectory",
		s.authenticated(s.handleGetTrajectory))
	s.mux.Handle("POST /api/v1/surgeries/{id}/analysis",
		s.authenticated(s.handleSaveAnalysis))

	// Simulator streaming (token in query, authenticated at handshake)
	s.mux.Handle("GET /ws/simulation", s.ws)

	// Operational
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

func (s *Server) authenticated(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(s.tokens, s.users, h)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "surgsim-backend",
	})
}

// authorize checks the requester's role against the action policy. It writes
// the failure response itself and reports whether the handler may proceed.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, action authz.Action) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return middleware.Identity{}, false
	}
	allowed, err := s.authorizer.Allowed(r.Context(), identity.Role, action)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return middleware.Identity{}, false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return middleware.Identity{}, false
	}
	return identity, true
}

// decodeAndValidate decodes the JSON body into dst and validates it. On
// failure it writes the 400 response (error envelope for malformed JSON,
// field-error map for constraint violations) and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = constraintMessage(fe)
		}
		writeJSON(w, http.StatusBadRequest, fields)
		return false
	}
	return true
}

// newRequestValidator builds the request-body validator with JSON tag names
// so field-error maps use the wire field names.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
