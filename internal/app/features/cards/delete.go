// internal/app/features/cards/delete.go
package cards

import (
	"errors"
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /cards/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete card")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	if err := cardstore.New(db).Delete(ctx, id); err != nil {
		if errors.Is(err, cardstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogServerError(w, r, "delete card failed", err)
		return
	}

	h.Log.Info("card deleted", zap.String("card_id", id.Hex()))
	apijson.WriteJSON(w, http.StatusOK, deleteResponse{OK: true})
}
