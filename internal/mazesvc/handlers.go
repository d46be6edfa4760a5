// ABOUTME: HTTP handlers for the maze grid service
// ABOUTME: Parses path and query parameters, calls the MazeStore, and writes result envelopes

package mazesvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/2389/maze-gateway/internal/cell"
	"github.com/2389/maze-gateway/internal/result"
	"github.com/2389/maze-gateway/internal/store"
)

// Name identifies the service in health messages, logs, and metrics.
const Name = "mazesvc"

// HealthPath is served without authentication.
const HealthPath = "/maze/health"

// maxBodyBytes bounds PATCH request bodies.
const maxBodyBytes = 64 << 10

// Options configures the maze handlers.
type Options struct {
	Version      string
	LegacyStatus bool
	Logger       *slog.Logger
}

// Service exposes a MazeStore over HTTP.
type Service struct {
	store   store.MazeStore
	version string
	legacy  bool
	logger  *slog.Logger
}

// New creates the maze HTTP service.
func New(s store.MazeStore, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Service{
		store:   s,
		version: version,
		legacy:  opts.LegacyStatus,
		logger:  logger.With("component", Name),
	}
}

// Register adds the maze routes to r. The health route is registered before
// /maze/{name} so "health" is never taken as a maze name.
func (s *Service) Register(r *mux.Router) {
	r.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/maze", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/maze/{name}", s.handleQuery).Methods(http.MethodGet)
	r.HandleFunc("/maze/{name}/{width}/{height}", s.handleInitialize).Methods(http.MethodPut)
	r.HandleFunc("/maze/{name}/{row}/{col}", s.handleGetCell).Methods(http.MethodGet)
	r.HandleFunc("/maze/{name}/{row}/{col}", s.handleUpdateCell).Methods(http.MethodPatch)
	r.HandleFunc("/maze/{name}/{row}/{col}/{dir}", s.handleGetCell).Methods(http.MethodGet)
}

// respond writes res and logs failures: client-class errors at warn,
// storage errors at error.
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
	if err := result.Write(w, res, s.legacy); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, result.OK().With("msg", fmt.Sprintf("%s %s OK", Name, s.version)))
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	mazes, err := s.store.ListMazes(r.Context())
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	s.respond(w, r, result.OK().With("mazes", mazes))
}

func (s *Service) handleInitialize(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	width, err := parseInt(name, "width", vars["width"])
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}
	height, err := parseInt(name, "height", vars["height"])
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	if err := s.store.InitializeMaze(r.Context(), name, width, height); err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	s.logger.Info("maze initialized", "maze", name, "width", width, "height", height)
	s.respond(w, r, result.OK())
}

// handleQuery serves GET /maze/{name}?row=&col=&dir=
func (s *Service) handleQuery(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	q := r.URL.Query()

	rawRow, rawCol := q.Get("row"), q.Get("col")
	if rawRow == "" || rawCol == "" {
		s.respond(w, r, result.Err(result.ErrValidation, "row and col are required"))
		return
	}

	s.getCell(w, r, name, rawRow, rawCol, q.Get("dir"))
}

// handleGetCell serves GET /maze/{name}/{row}/{col}[/{dir}]
func (s *Service) handleGetCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.getCell(w, r, vars["name"], vars["row"], vars["col"], vars["dir"])
}

func (s *Service) getCell(w http.ResponseWriter, r *http.Request, name, rawRow, rawCol, rawDir string) {
	row, col, err := parseCoords(name, rawRow, rawCol)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	var dir *cell.Direction
	if rawDir != "" {
		d, err := cell.ParseDirection(rawDir)
		if err != nil {
			s.respond(w, r, result.FromError(err))
			return
		}
		dir = &d
	}

	c, err := s.store.GetCell(r.Context(), name, row, col, dir)
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	s.respond(w, r, result.OK().With("state", c.State).With("metadata", c.Metadata))
}

// cellUpdateRequest is the JSON body for PATCH /maze/{name}/{row}/{col}.
type cellUpdateRequest struct {
	State    *string `json:"state"`
	Metadata *string `json:"metadata"`
}

func (s *Service) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	row, col, err := parseCoords(name, vars["row"], vars["col"])
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	req, err := parseCellUpdate(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	c, err := s.store.UpdateCell(r.Context(), name, row, col, store.CellUpdate{
		State:    req.State,
		Metadata: req.Metadata,
	})
	if err != nil {
		s.respond(w, r, result.FromError(err))
		return
	}

	s.respond(w, r, result.OK().
		With("cell", c.Key).
		With("state", c.State).
		With("metadata", c.Metadata))
}

func parseCellUpdate(body io.Reader) (*cellUpdateRequest, error) {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req cellUpdateRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, result.Validation("request body is required")
		}
		return nil, result.Validation("invalid JSON: %v", err)
	}
	return &req, nil
}

func parseCoords(name, rawRow, rawCol string) (row, col int, err error) {
	row, err = parseInt(name, "row", rawRow)
	if err != nil {
		return 0, 0, err
	}
	col, err = parseInt(name, "col", rawCol)
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func parseInt(name, field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, result.Validation("%s: %s %q is not an integer", name, field, raw)
	}
	return n, nil
}
