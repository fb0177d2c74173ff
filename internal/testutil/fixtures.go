package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it repeatedly on the same request adds further parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreatePartner inserts a partner with the given name and primary hashtag.
// The permalink is derived from the name.
func (f *Fixtures) CreatePartner(ctx context.Context, name, hashtag string) models.Partner {
	f.t.Helper()
	return f.InsertPartner(ctx, models.Partner{Name: name, PrimaryHashtag: hashtag})
}

// InsertPartner inserts p as-is after filling ID, NameCI, Permalink and
// timestamps when they are empty.
func (f *Fixtures) InsertPartner(ctx context.Context, p models.Partner) models.Partner {
	f.t.Helper()

	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.NameCI = text.Fold(p.Name)
	if p.Permalink == "" {
		p.Permalink = normalize.Permalink(p.Name)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if _, err := f.db.Collection("partners").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test partner: %v", err)
	}
	return p
}
