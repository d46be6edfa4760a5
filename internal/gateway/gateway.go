// ABOUTME: Aggregation gateway forwarding user and grue requests to sibling services
// ABOUTME: Passes successful upstream bodies through unchanged and wraps failures in an error envelope

package gateway

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/2389/maze-gateway/internal/config"
	"github.com/2389/maze-gateway/internal/result"
	"github.com/2389/maze-gateway/internal/server"
)

// Name identifies the gateway in health messages, logs, and metrics.
const Name = "maze-gateway"

// HealthPath is served locally and without authentication.
const HealthPath = "/maze/health"

// maxRequestBody bounds inbound bodies forwarded upstream.
const maxRequestBody = 1 << 20

// Options configures the gateway.
type Options struct {
	Version      string
	LegacyStatus bool
	Logger       *slog.Logger
}

// Gateway translates inbound requests into upstream calls.
type Gateway struct {
	client  *Client
	users   Upstream
	grues   Upstream
	version string
	legacy  bool
	logger  *slog.Logger
}

// New creates a gateway for the configured upstreams.
func New(cfg config.UpstreamsConfig, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gateway")

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Gateway{
		client:  NewClient(cfg.Timeout, logger),
		users:   Upstream{Name: "usersvc", BaseURL: cfg.UserURL},
		grues:   Upstream{Name: "gruesvc", BaseURL: cfg.GrueURL},
		version: version,
		legacy:  opts.LegacyStatus,
		logger:  logger,
	}
}

// Register adds the gateway routes to r.
func (g *Gateway) Register(r *mux.Router) {
	r.HandleFunc(HealthPath, g.handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/maze/user/{username}", g.handleUser).Methods(http.MethodGet, http.MethodPut)
	r.HandleFunc("/maze/grue", g.handleGrueList).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/maze/grue/{uuid}", g.handleGrue).Methods(http.MethodGet, http.MethodPut)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = result.Write(w, result.OK().With("msg", fmt.Sprintf("%s %s OK", Name, g.version)), g.legacy)
}

func (g *Gateway) handleUser(w http.ResponseWriter, r *http.Request) {
	g.forward(w, r, g.users, g.users.URL(url.PathEscape(mux.Vars(r)["username"])))
}

func (g *Gateway) handleGrueList(w http.ResponseWriter, r *http.Request) {
	g.forward(w, r, g.grues, g.grues.URL("grue"))
}

func (g *Gateway) handleGrue(w http.ResponseWriter, r *http.Request) {
	g.forward(w, r, g.grues, g.grues.URL("grue", url.PathEscape(mux.Vars(r)["uuid"])))
}

// forward relays r to target. A 200 response body is written back byte for
// byte; anything else becomes an upstream-error envelope.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, upstream Upstream, target string) {
	req := UpstreamRequest{
		Method:        r.Method,
		URL:           target,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     server.RequestIDFromContext(r.Context()),
	}

	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				g.fail(w, r, result.Errorf(result.ErrValidation, "request body larger than %d bytes", tooLarge.Limit))
				return
			}
			g.fail(w, r, result.Errorf(result.ErrValidation, "reading request body: %v", err))
			return
		}
		req.Body = body
	}

	resp, err := g.client.Do(r.Context(), upstream, req)
	if err != nil {
		g.fail(w, r, result.Errorf(result.ErrUpstream, "request failed: %v", err))
		return
	}

	if resp.StatusCode != http.StatusOK {
		g.fail(w, r, result.Errorf(result.ErrUpstream, "request failed: %s", resp.Body))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		g.logger.Debug("writing response", "error", err)
	}
}

func (g *Gateway) fail(w http.ResponseWriter, r *http.Request, res result.Result) {
	g.logger.Warn("forward failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", res.Message(),
	)
	_ = result.Write(w, res, g.legacy)
}
