// internal/app/features/cards/get.go
package cards

import (
	"errors"
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
)

// ServeGet handles GET /cards/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get card")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	c, err := cardstore.New(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, cardstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogServerError(w, r, "get card failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, c)
}
