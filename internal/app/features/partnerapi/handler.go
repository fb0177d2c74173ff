// internal/app/features/partnerapi/handler.go
package partnerapi

import (
	"context"
	"encoding/json"
	"net/http"

	partnerstore "github.com/dalemusser/partnerstats/internal/app/store/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/paging"
	"github.com/dalemusser/partnerstats/internal/app/system/ratelimit"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxBodyBytes bounds partner create/update payloads.
const maxBodyBytes = 1 << 20

// Store is the subset of the partner store the API needs.
type Store interface {
	Resolve(ctx context.Context, idOrPermalink string) (models.Partner, error)
	List(ctx context.Context, page paging.Page) ([]models.Partner, string, error)
	Create(ctx context.Context, p models.Partner) (models.Partner, error)
	Update(ctx context.Context, id primitive.ObjectID, p models.Partner) (models.Partner, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Handler serves the partner JSON API.
type Handler struct {
	Store          Store
	AdminTokenHash []byte
	// Failures counts rejected admin tokens per client IP; nil disables throttling.
	Failures *ratelimit.Limiter
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client.
	TrustedProxies ratelimit.Proxies
	Log            *zap.Logger
}

// NewHandler constructs the API handler. adminTokenHash is a bcrypt hash;
// empty disables write endpoints.
func NewHandler(db *mongo.Database, adminTokenHash string, failures *ratelimit.Limiter, trusted ratelimit.Proxies, logger *zap.Logger) *Handler {
	h := New(partnerstore.New(db), adminTokenHash, logger)
	h.Failures = failures
	h.TrustedProxies = trusted
	return h
}

// New constructs the API handler over any Store.
func New(store Store, adminTokenHash string, logger *zap.Logger) *Handler {
	return &Handler{
		Store:          store,
		AdminTokenHash: []byte(adminTokenHash),
		Log:            logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
