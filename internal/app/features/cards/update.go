// internal/app/features/cards/update.go
package cards

import (
	"errors"
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
)

// HandleUpdate handles PATCH /cards/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var in updateInput
	res, err := apijson.Bind(w, r, h.MaxBodyBytes, &in)
	if err != nil {
		h.ErrLog.LogDecodeError(w, r, err)
		return
	}
	if res.HasErrors() {
		h.ErrLog.LogValidation(w, r, "update card: validation failed", res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update card")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	c, err := cardstore.New(db).Update(ctx, id, in.toPatch())
	if err != nil {
		if errors.Is(err, cardstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogWriteError(w, r, "update card failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, c)
}
