// internal/app/features/cards/handler.go
package cards

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

// Handler provides the /cards JSON endpoints.
type Handler struct {
	DB           dbconn.Provider
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	MaxBodyBytes int64
}

// NewHandler creates a new cards Handler. maxBodyBytes <= 0 uses
// apijson.DefaultMaxBodyBytes.
func NewHandler(db dbconn.Provider, errLog *uierrors.ErrorLogger, maxBodyBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		MaxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) database(ctx context.Context, w http.ResponseWriter, r *http.Request) (*mongo.Database, bool) {
	db, err := h.DB.Database(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database unavailable", err)
		return nil, false
	}
	return db, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := inputval.ParseObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "malformed id", nil, apijson.MsgInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}
