// internal/app/features/partners/handler.go
package partners

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/partnerstats/internal/app/features/errors"
	partnerstore "github.com/dalemusser/partnerstats/internal/app/store/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/ohsome"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultLearnURL is where the "New to mapping?" action points.
const DefaultLearnURL = "/learn/map/"

// PartnerResolver finds a partner by id or permalink.
type PartnerResolver interface {
	Resolve(ctx context.Context, idOrPermalink string) (models.Partner, error)
}

// StatsFetcher returns hashtag totals, or nil when there are none.
type StatsFetcher interface {
	HashtagStats(ctx context.Context, hashtag string) (*ohsome.Stats, error)
}

// Handler serves the partner statistics dashboard.
type Handler struct {
	Partners PartnerResolver
	Stats    StatsFetcher
	LearnURL string
	Log      *zap.Logger

	render        func(w http.ResponseWriter, r *http.Request, name string, data any)
	renderSnippet func(w http.ResponseWriter, name string, data any)
	notFound      func(w http.ResponseWriter, r *http.Request, msg, backURL string)
}

// NewHandler constructs a partners Handler backed by the partner store.
func NewHandler(db *mongo.Database, stats StatsFetcher, learnURL string, logger *zap.Logger) *Handler {
	return New(partnerstore.New(db), stats, learnURL, logger)
}

// New constructs a Handler from its collaborators.
func New(partners PartnerResolver, stats StatsFetcher, learnURL string, logger *zap.Logger) *Handler {
	if learnURL == "" {
		learnURL = DefaultLearnURL
	}
	return &Handler{
		Partners: partners,
		Stats:    stats,
		LearnURL: learnURL,
		Log:      logger,
		render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
		renderSnippet: func(w http.ResponseWriter, name string, data any) {
			templates.RenderSnippet(w, name, data)
		},
		notFound: uierrors.RenderNotFound,
	}
}
