// internal/app/features/partnerapi/partners.go
package partnerapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	partnerstore "github.com/dalemusser/partnerstats/internal/app/store/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/paging"
	"github.com/dalemusser/partnerstats/internal/app/system/timeouts"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// List handles GET /api/partners/?limit=&after=.
// When more rows follow, a Link header with rel="next" carries the cursor.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "partner list")
	defer cancel()

	page := paging.FromRequest(r)
	partners, next, err := h.Store.List(ctx, page)
	if err != nil {
		h.Log.Error("partner list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load partners")
		return
	}
	if next != "" {
		q := url.Values{}
		q.Set("after", next)
		q.Set("limit", strconv.Itoa(page.Limit))
		w.Header().Set("Link", fmt.Sprintf(`<%s?%s>; rel="next"`, r.URL.Path, q.Encode()))
	}
	writeJSON(w, http.StatusOK, partners)
}

// Get handles GET /api/partners/{id}/; id may be an ObjectID or a permalink.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, ok := h.resolve(ctx, w, partnerRef(r))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/partners/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePartner(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "partner create")
	defer cancel()

	created, err := h.Store.Create(ctx, p)
	if err != nil {
		if errors.Is(err, partnerstore.ErrDuplicatePermalink) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("partner create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create partner")
		return
	}

	h.Log.Info("partner created",
		zap.String("partner", created.ID.Hex()),
		zap.String("permalink", created.Permalink))
	w.Header().Set("Location", "/api/partners/"+created.ID.Hex()+"/")
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/partners/{id}/.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePartner(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "partner update")
	defer cancel()

	existing, ok := h.resolve(ctx, w, partnerRef(r))
	if !ok {
		return
	}

	updated, err := h.Store.Update(ctx, existing.ID, p)
	if err != nil {
		switch {
		case errors.Is(err, partnerstore.ErrDuplicatePermalink):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, mongo.ErrNoDocuments):
			writeError(w, http.StatusNotFound, "partner not found")
		default:
			h.Log.Error("partner update failed", zap.String("partner", existing.ID.Hex()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update partner")
		}
		return
	}

	h.Log.Info("partner updated", zap.String("partner", updated.ID.Hex()))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/partners/{id}/.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "partner delete")
	defer cancel()

	existing, ok := h.resolve(ctx, w, partnerRef(r))
	if !ok {
		return
	}

	n, err := h.Store.Delete(ctx, existing.ID)
	if err != nil {
		h.Log.Error("partner delete failed", zap.String("partner", existing.ID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete partner")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	h.Log.Info("partner deleted", zap.String("partner", existing.ID.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolve(ctx context.Context, w http.ResponseWriter, ref string) (models.Partner, bool) {
	p, err := h.Store.Resolve(ctx, ref)
	if err == nil {
		return p, true
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, http.StatusNotFound, "partner not found")
		return models.Partner{}, false
	}
	h.Log.Error("partner lookup failed", zap.String("partner", ref), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to load partner")
	return models.Partner{}, false
}

// partnerRef returns the {id} path segment with percent-escapes decoded.
func partnerRef(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if ref, err := url.PathUnescape(raw); err == nil {
		return ref
	}
	return raw
}

func decodePartner(w http.ResponseWriter, r *http.Request) (models.Partner, bool) {
	var p models.Partner
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return models.Partner{}, false
	}
	if err := validatePartner(&p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.Partner{}, false
	}
	return p, true
}
