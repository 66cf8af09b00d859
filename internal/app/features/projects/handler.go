// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/crccards/internal/app/features/errors"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/dbconn"
	"github.com/dalemusser/crccards/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options tunes project endpoint behaviour.
type Options struct {
	// MaxBodyBytes bounds request bodies; <= 0 uses apijson.DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// CascadeDeleteCards removes a project's cards when the project is deleted.
	CascadeDeleteCards bool
}

// Handler provides the /projects JSON endpoints.
type Handler struct {
	DB     dbconn.Provider
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Opts   Options
}

// NewHandler creates a new projects Handler.
func NewHandler(db dbconn.Provider, errLog *uierrors.ErrorLogger, opts Options, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Opts:   opts,
	}
}

// database resolves the shared handle, writing a 500 on failure.
func (h *Handler) database(ctx context.Context, w http.ResponseWriter, r *http.Request) (*mongo.Database, bool) {
	db, err := h.DB.Database(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database unavailable", err)
		return nil, false
	}
	return db, true
}

// pathID parses the {id} URL parameter, writing a 400 when malformed.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := inputval.ParseObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "malformed id", nil, apijson.MsgInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}
