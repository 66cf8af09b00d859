// internal/app/features/cards/list.go
package cards

import (
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/inputval"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList handles GET /cards[?projectId=...], sorted by class name.
// An empty projectId is the same as no filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var filter *primitive.ObjectID
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		pid, ok := inputval.ParseObjectID(raw)
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "list cards: malformed projectId", nil, apijson.MsgInvalidProjectID)
			return
		}
		filter = &pid
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list cards")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	list, err := cardstore.New(db).List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list cards failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, list)
}
