// ABOUTME: HTTP handlers for the grue record service
// ABOUTME: Single-row CRUD over GrueStore; every envelope names the answering host

package gruesvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/2389/maze-gateway/internal/result"
	"github.com/2389/maze-gateway/internal/store"
)

// Name identifies the service in health messages, logs, and metrics.
const Name = "gruesvc"

// HealthPath is served without authentication.
const HealthPath = "/grue/health"

const maxBodyBytes = 64 << 10

// Options configures the grue handlers.
type Options struct {
	Version      string
	LegacyStatus bool
	// Hostname overrides os.Hostname in envelopes.
	Hostname string
	Logger   *slog.Logger
}

// Service exposes a GrueStore over HTTP.
type Service struct {
	store    store.GrueStore
	version  string
	hostname string
	legacy   bool
	logger   *slog.Logger
}

// New creates the grue HTTP service.
func New(s store.GrueStore, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	return &Service{
		store:    s,
		version:  version,
		hostname: hostname,
		legacy:   opts.LegacyStatus,
		logger:   logger.With("component", Name),
	}
}

// Register adds the grue routes to r.
func (s *Service) Register(r *mux.Router) {
	r.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/grue", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/grue", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/grue/{uuid}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/grue/{uuid}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/grue/{uuid}", s.handleDelete).Methods(http.MethodDelete)
}

func (s *Service) respond(w http.ResponseWriter, r *http.Request, res result.Result) {
	if !res.Ok() {
		level := slog.LevelWarn
		if errors.Is(res.Kind(), result.ErrStorage) {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", res.Message(),
		)
	}
	if err := result.Write(w, res.With("hostname", s.hostname), s.legacy); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}

func grueResult(g *store.Grue) result.Result {
	return result.OK().
		With("uuid", g.UUID).
		With("name", g.Name).
		With("location", g.Location).
		With("hunger", g.Hunger).
		With("meals", g.Meals)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, result.OK().With("msg", fmt.Sprintf("%s %s OK", Name, s.version)))
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	grues, err := s.store.ListGrues(r.Context())
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	s.respond(w, r, result.OK().With("grues", grues).With("count", len(grues)))
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r.Body)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	name, err := stringField(fields, "name")
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	location, err := stringField(fields, "location")
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	g, err := s.store.CreateGrue(r.Context(), name, location)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	s.logger.Info("grue created", "uuid", g.UUID, "name", g.Name, "location", g.Location)
	s.respond(w, r, result.OK().With("uuid", g.UUID))
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.GetGrue(r.Context(), mux.Vars(r)["uuid"])
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	s.respond(w, r, grueResult(g))
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["uuid"]

	fields, err := readFields(r.Body)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	update, err := parseUpdate(id, fields)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	g, err := s.store.UpdateGrue(r.Context(), id, update)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	s.respond(w, r, grueResult(g))
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["uuid"]

	if err := s.store.DeleteGrue(r.Context(), id); err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	s.logger.Info("grue deleted", "uuid", id)
	s.respond(w, r, result.OK().With("uuid", id))
}

// readFields decodes a JSON object body. An empty body is an empty object.
func readFields(body io.Reader) (map[string]json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return nil, result.Validation("reading body: %v", err)
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, result.Validation("invalid JSON: %v", err)
	}
	return fields, nil
}

// stringField returns fields[key] as a string; absent keys yield "".
func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", result.Validation("bad value for %s: %s", key, raw)
	}
	return v, nil
}

// intField accepts a JSON number or a numeric string.
func intField(id string, fields map[string]json.RawMessage, key string) (*int, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return &n, nil
		}
	}
	return nil, result.Validation("%s: bad value for %s: %s", id, key, raw)
}

func parseUpdate(id string, fields map[string]json.RawMessage) (store.GrueUpdate, error) {
	var update store.GrueUpdate

	if _, ok := fields["location"]; ok {
		loc, err := stringField(fields, "location")
		if err != nil {
			return update, result.Validation("%s: %v", id, err)
		}
		update.Location = &loc
	}

	var err error
	if update.Hunger, err = intField(id, fields, "hunger"); err != nil {
		return update, err
	}
	if update.Meals, err = intField(id, fields, "meals"); err != nil {
		return update, err
	}
	return update, nil
}
