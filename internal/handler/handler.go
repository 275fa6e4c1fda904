package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"logicsim/internal/domain"
	"logicsim/internal/service"
)

// maxBodyBytes bounds request bodies, including uploaded scheme documents
const maxBodyBytes = 4 << 20

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OperationResponse reports the outcome of one editor event
type OperationResponse struct {
	Applied bool           `json:"applied"`
	Reason  string         `json:"reason,omitempty"`
	NodeID  *domain.NodeID `json:"node_id,omitempty"`
	State   service.State  `json:"state"`
}

// Handler serves the editor API
type Handler struct {
	editor  *service.Editor
	schemes *service.SchemeService
	events  http.Handler
	metrics http.Handler
	logger  *zap.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithSchemes enables the /api/schemes routes
func WithSchemes(s *service.SchemeService) Option {
	return func(h *Handler) { h.schemes = s }
}

// WithEvents mounts the SSE stream at /events
func WithEvents(events http.Handler) Option {
	return func(h *Handler) { h.events = events }
}

// WithMetrics mounts the Prometheus endpoint at /metrics
func WithMetrics(metrics http.Handler) Option {
	return func(h *Handler) { h.metrics = metrics }
}

// New creates a new handler for editor
func New(editor *service.Editor, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{editor: editor, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(h.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.logger, map[string]string{"status": "ok"}, http.StatusOK)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", h.GetState)
		r.Post("/reset", h.Reset)
		r.Post("/select-type", h.SelectType)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", h.AddNode)
			r.Get("/at", h.NodeAt)
			r.Put("/{id}/position", h.MoveNode)
			r.Post("/{id}/toggle", h.ToggleInput)
			r.Put("/{id}/label", h.SetLabel)
			r.Delete("/{id}", h.DeleteNode)
		})

		r.Post("/connections", h.Connect)
		r.Route("/connect", func(r chi.Router) {
			r.Post("/start", h.ConnectStart)
			r.Post("/finish", h.ConnectFinish)
			r.Post("/cancel", h.CancelConnect)
		})

		r.Post("/simulate", h.Simulate)
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)

		if h.schemes != nil {
			r.Route("/schemes", func(r chi.Router) {
				r.Get("/", h.ListSchemes)
				r.Post("/", h.SaveScheme)
				r.Post("/{name}/load", h.LoadScheme)
				r.Delete("/{name}", h.DeleteScheme)
			})
		}

		r.Route("/analysis", func(r chi.Router) {
			r.Get("/truth-table", h.TruthTable)
			r.Get("/satisfy/{id}", h.Satisfy)
		})
	})

	if h.events != nil {
		router.Handle("/events", h.events)
	}
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics)
	}

	return router
}

// Helper methods

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the request validator, reporting fields by json name
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// decode reads a JSON body into dst and validates it
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := getValidator().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// nodeIDParam parses the {id} route parameter
func nodeIDParam(r *http.Request) (domain.NodeID, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("node id %q is not an integer", raw)
	}
	return domain.NodeID(id), nil
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, error, details string, statusCode int) {
	writeJSON(w, logger, ErrorResponse{Error: error, Details: details}, statusCode)
}

// respond answers an editor event. Rejections are reported in the body,
// anything else is a server error.
func (h *Handler) respond(w http.ResponseWriter, err error, id *domain.NodeID) {
	resp := OperationResponse{Applied: err == nil, NodeID: id}
	if err != nil {
		if !domain.IsRejection(err) && !isEditorRejection(err) {
			h.logger.Error("editor operation failed", zap.Error(err))
			writeError(w, h.logger, "Operation failed", err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Reason = err.Error()
	}
	resp.State = h.editor.State()
	writeJSON(w, h.logger, resp, http.StatusOK)
}

func isEditorRejection(err error) bool {
	return errors.Is(err, service.ErrNoPendingConnection) || errors.Is(err, service.ErrNoPrompter)
}
