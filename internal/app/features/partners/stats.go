// internal/app/features/partners/stats.go
package partners

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/partnerstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/dalemusser/partnerstats/internal/app/system/ohsome"
	"github.com/dalemusser/partnerstats/internal/app/system/socials"
	"github.com/dalemusser/partnerstats/internal/app/system/timeouts"
	"github.com/dalemusser/partnerstats/internal/app/system/viewdata"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeRedirect handles GET /partners/{id}/stats by redirecting to the
// default tab. The target always carries a tab, so this happens once.
func (h *Handler) ServeRedirect(w http.ResponseWriter, r *http.Request) {
	id := partnerRef(r)
	http.Redirect(w, r, statsPath(id, TabLeaderboard), http.StatusFound)
}

// ServeStats renders the dashboard shell: header, tabs, actions, social
// links and a placeholder that loads the active tab's panel.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	id := partnerRef(r)
	tabname := chi.URLParam(r, "tabname")

	partner, ok := h.loadPartner(w, r, id, false)
	if !ok {
		return
	}

	data := pageData{
		BaseVM:    viewdata.NewBaseVM(r, partner.Name, "/"),
		Partner:   headerVM{ID: id, Name: partner.Name, LogoURL: partner.LogoURL},
		Tabs:      buildTabs(id, tabname),
		ActiveTab: tabname,
		LearnURL:  h.LearnURL,
		Resources: resourcesVM{
			Links:       partner.WebsiteLinks,
			Description: htmlsanitize.PrepareForDisplay(partner.Description),
		},
		Socials: socials.Collect(partner.LinkFields()),
	}
	if knownTab(tabname) {
		data.PanelURL = statsPath(id, tabname) + "/panel"
		data.PlaceholderRows = make([]struct{}, placeholderRowCount)
	}

	h.render(w, r, "partner_stats", data)
}

// ServePanel renders the content of one tab. The stats request is only
// made once the partner has resolved.
func (h *Handler) ServePanel(w http.ResponseWriter, r *http.Request) {
	id := partnerRef(r)
	tabname := chi.URLParam(r, "tabname")

	partner, ok := h.loadPartner(w, r, id, true)
	if !ok {
		return
	}

	switch tabname {
	case TabLeaderboard:
		stats := h.fetchStats(r.Context(), partner)
		h.renderSnippet(w, "partner_leaderboard", buildLeaderboard(partner, stats))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
}

// loadPartner resolves the partner or writes the not-found response.
func (h *Handler) loadPartner(w http.ResponseWriter, r *http.Request, id string, snippet bool) (models.Partner, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	partner, err := h.Partners.Resolve(ctx, id)
	if err == nil {
		return partner, true
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Info("partner not found", zap.String("partner", id))
	} else {
		h.Log.Error("partner lookup failed", zap.String("partner", id), zap.Error(err))
	}

	if snippet {
		// htmx does not swap 4xx bodies, so the panel message goes out as
		// a 200 and the page shell keeps the 404.
		w.Header().Set("HX-Reswap", "innerHTML")
		h.renderSnippet(w, "partner_not_found_panel", notFoundData{Ref: id})
		return models.Partner{}, false
	}
	h.notFound(w, r, fmt.Sprintf("We could not find a partner called “%s”.", id), "/")
	return models.Partner{}, false
}

// partnerRef returns the {id} path segment with percent-escapes decoded,
// falling back to the raw segment when it is not a valid escape sequence.
func partnerRef(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if ref, err := url.PathUnescape(raw); err == nil {
		return ref
	}
	return raw
}

// fetchStats returns nil when the partner has no hashtag or the request
// fails; failures are logged and never shown to the visitor.
func (h *Handler) fetchStats(ctx context.Context, partner models.Partner) *ohsome.Stats {
	hashtag := normalize.Hashtag(partner.PrimaryHashtag)
	if hashtag == "" || h.Stats == nil {
		return nil
	}

	stats, err := h.Stats.HashtagStats(ctx, hashtag)
	if err != nil {
		h.Log.Warn("partner stats fetch failed",
			zap.String("partner", partner.ID.Hex()),
			zap.String("hashtag", hashtag),
			zap.Error(err))
		return nil
	}
	return stats
}
