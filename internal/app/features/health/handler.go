package health

import (
	"context"
	"net/http"

	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/dbconn"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  dbconn.Provider
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the database provider and logger.
func NewHandler(db dbconn.Provider, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	err := h.ping(ctx)
	if err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		apijson.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	apijson.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected"})
}

func (h *Handler) ping(ctx context.Context) error {
	db, err := h.DB.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, readpref.Primary())
}

type dbDiagnostic struct {
	OK           bool   `json:"ok"`
	ProjectCount *int64 `json:"projectCount,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ServeDB handles GET /health/db. It connects through the shared gateway
// and counts projects.
//
//	200 { "ok":true, "projectCount":3 }
//	500 { "ok":false, "error":"…" }
func (h *Handler) ServeDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	db, err := h.DB.Database(ctx)
	if err != nil {
		h.Log.Error("db diagnostic: connect failed", zap.Error(err))
		apijson.WriteJSON(w, http.StatusInternalServerError, dbDiagnostic{Error: err.Error()})
		return
	}

	n, err := projectstore.New(db).Count(ctx)
	if err != nil {
		h.Log.Error("db diagnostic: count projects failed", zap.Error(err))
		apijson.WriteJSON(w, http.StatusInternalServerError, dbDiagnostic{Error: err.Error()})
		return
	}

	apijson.WriteJSON(w, http.StatusOK, dbDiagnostic{OK: true, ProjectCount: &n})
}
