package partnerapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	partnerstore "github.com/dalemusser/partnerstats/internal/app/store/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/paging"
	"github.com/dalemusser/partnerstats/internal/app/system/ratelimit"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testToken = "s3cret-admin-token"

// memStore is an in-memory Store keyed by ObjectID.
type memStore struct {
	partners map[primitive.ObjectID]models.Partner
}

func newMemStore(ps ...models.Partner) *memStore {
	m := &memStore{partners: make(map[primitive.ObjectID]models.Partner)}
	for _, p := range ps {
		m.partners[p.ID] = p
	}
	return m
}

func (m *memStore) Resolve(_ context.Context, ref string) (models.Partner, error) {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		if p, ok := m.partners[oid]; ok {
			return p, nil
		}
	}
	for _, p := range m.partners {
		if p.Permalink == ref {
			return p, nil
		}
	}
	return models.Partner{}, mongo.ErrNoDocuments
}

func (m *memStore) List(_ context.Context, page paging.Page) ([]models.Partner, string, error) {
	out := make([]models.Partner, 0, len(m.partners))
	for _, p := range m.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	next := ""
	if len(out) > page.Limit {
		out = out[:page.Limit]
		next = "cursor-" + out[len(out)-1].Name
	}
	return out, next, nil
}

func (m *memStore) Create(_ context.Context, p models.Partner) (models.Partner, error) {
	p.Permalink = strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
	for _, existing := range m.partners {
		if existing.Permalink == p.Permalink {
			return models.Partner{}, partnerstore.ErrDuplicatePermalink
		}
	}
	p.ID = primitive.NewObjectID()
	m.partners[p.ID] = p
	return p, nil
}

func (m *memStore) Update(_ context.Context, id primitive.ObjectID, p models.Partner) (models.Partner, error) {
	existing, ok := m.partners[id]
	if !ok {
		return models.Partner{}, mongo.ErrNoDocuments
	}
	p.ID = id
	p.Permalink = existing.Permalink
	m.partners[id] = p
	return p, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.partners[id]; !ok {
		return 0, nil
	}
	delete(m.partners, id)
	return 1, nil
}

func newTestHandler(t *testing.T, store Store, withAdmin bool) http.Handler {
	t.Helper()
	hash := ""
	if withAdmin {
		b, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("GenerateFromPassword: %v", err)
		}
		hash = string(b)
	}
	return Routes(New(store, hash, zap.NewNop()))
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestGet_ByIDAndPermalink(t *testing.T) {
	p := models.Partner{ID: primitive.NewObjectID(), Name: "Acme", Permalink: "acme", PrimaryHashtag: "acme"}
	h := newTestHandler(t, newMemStore(p), false)

	for _, ref := range []string{p.ID.Hex(), "acme"} {
		rec := do(h, http.MethodGet, "/"+ref+"/", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status = %d, want 200", ref, rec.Code)
		}
		var got models.Partner
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != p.ID || got.Name != "Acme" {
			t.Errorf("GET %s: got %+v", ref, got)
		}
	}
}

func TestGet_EscapedRefIsDecoded(t *testing.T) {
	p := models.Partner{ID: primitive.NewObjectID(), Name: "AC/DC", Permalink: "ac/dc", PrimaryHashtag: "acdc"}
	h := newTestHandler(t, newMemStore(p), false)

	rec := do(h, http.MethodGet, "/ac%2Fdc/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	h := newTestHandler(t, newMemStore(), false)

	rec := do(h, http.MethodGet, "/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "partner not found" {
		t.Errorf("error = %q", msg)
	}
}

func TestList(t *testing.T) {
	h := newTestHandler(t, newMemStore(
		models.Partner{ID: primitive.NewObjectID(), Name: "A", Permalink: "a"},
		models.Partner{ID: primitive.NewObjectID(), Name: "B", Permalink: "b"},
	), false)

	rec := do(h, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []models.Partner
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if link := rec.Header().Get("Link"); link != "" {
		t.Errorf("unexpected Link header %q", link)
	}

	rec = do(h, http.MethodGet, "/?limit=1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("paged: status = %d", rec.Code)
	}
	if link := rec.Header().Get("Link"); !strings.Contains(link, `rel="next"`) || !strings.Contains(link, "limit=1") {
		t.Errorf("Link = %q", link)
	}
}

func TestWrites_DisabledWithoutHash(t *testing.T) {
	h := newTestHandler(t, newMemStore(), false)

	rec := do(h, http.MethodPost, "/", `{"name":"Acme"}`, testToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestWrites_RequireValidToken(t *testing.T) {
	h := newTestHandler(t, newMemStore(), true)

	rec := do(h, http.MethodPost, "/", `{"name":"Acme"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}

	rec = do(h, http.MethodPost, "/", `{"name":"Acme"}`, "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", rec.Code)
	}
}

func TestCreate(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(t, store, true)

	body := `{"name":"  Acme Corp ","primary_hashtag":"#Acme","link_x":"https://x.com/acme","link_mastodon":"https://mastodon.social/@acme"}`
	rec := do(h, http.MethodPost, "/", body, testToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/api/partners/") {
		t.Errorf("Location = %q", loc)
	}

	var got models.Partner
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Errorf("Name = %q, want trimmed", got.Name)
	}
	if got.ExtraLinks["link_mastodon"] != "https://mastodon.social/@acme" {
		t.Errorf("ExtraLinks = %v", got.ExtraLinks)
	}
	if len(store.partners) != 1 {
		t.Errorf("stored %d partners, want 1", len(store.partners))
	}
}

func TestCreate_Duplicate(t *testing.T) {
	h := newTestHandler(t, newMemStore(
		models.Partner{ID: primitive.NewObjectID(), Name: "Acme", Permalink: "acme"},
	), true)

	rec := do(h, http.MethodPost, "/", `{"name":"Acme"}`, testToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreate_Validation(t *testing.T) {
	h := newTestHandler(t, newMemStore(), true)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad json", `{"name":`, "invalid JSON body"},
		{"missing name", `{"name":"   "}`, "name is required"},
		{"bad logo", `{"name":"A","logo_url":"ftp://x"}`, "logo_url must be an absolute http(s) URL"},
		{"bad social", `{"name":"A","link_meta":"facebook.com/a"}`, "link_meta must be an absolute http(s) URL"},
		{"website missing name", `{"name":"A","website_links":[{"name":"","url":"https://a.org"}]}`, "website_links[0]: name is required"},
		{"website bad url", `{"name":"A","website_links":[{"name":"Home","url":"nope"}]}`, "website_links[0]: url must be an absolute http(s) URL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/", tc.body, testToken)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != tc.want {
				t.Errorf("error = %q, want %q", msg, tc.want)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	p := models.Partner{ID: primitive.NewObjectID(), Name: "Acme", Permalink: "acme"}
	store := newMemStore(p)
	h := newTestHandler(t, store, true)

	rec := do(h, http.MethodPut, "/acme/", `{"name":"Acme","description":"<p>hi</p>"}`, testToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := store.partners[p.ID].Description; got != "<p>hi</p>" {
		t.Errorf("Description = %q", got)
	}

	rec = do(h, http.MethodPut, "/missing/", `{"name":"X"}`, testToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	p := models.Partner{ID: primitive.NewObjectID(), Name: "Acme", Permalink: "acme"}
	store := newMemStore(p)
	h := newTestHandler(t, store, true)

	rec := do(h, http.MethodDelete, "/"+p.ID.Hex(), "", testToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(store.partners) != 0 {
		t.Error("partner not deleted")
	}

	rec = do(h, http.MethodDelete, "/"+p.ID.Hex(), "", testToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestWrites_ThrottleFailedTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	h := New(newMemStore(), string(hash), zap.NewNop())
	h.Failures = ratelimit.New(2, time.Minute)
	router := Routes(h)

	for i := 0; i < 2; i++ {
		if rec := do(router, http.MethodPost, "/", `{"name":"Acme"}`, "wrong"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, rec.Code)
		}
	}

	rec := do(router, http.MethodPost, "/", `{"name":"Acme"}`, testToken)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestWrites_ThrottleIgnoresSpoofedForwardedFor(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	h := New(newMemStore(), string(hash), zap.NewNop())
	h.Failures = ratelimit.New(2, time.Minute)
	router := Routes(h)

	post := func(forwardedFor, token string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		if code := post(xff, "wrong"); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, code)
		}
	}
	if code := post("203.0.113.3", "wrong"); code != http.StatusTooManyRequests {
		t.Errorf("rotated X-Forwarded-For: status = %d, want 429", code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"empty":       {"", "", false},
		"basic":       {"Basic abc", "", false},
		"bearer":      {"Bearer abc", "abc", true},
		"lowercase":   {"bearer abc", "abc", true},
		"blank token": {"Bearer    ", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, ok := bearerToken(req)
			if got != tc.token || ok != tc.ok {
				t.Errorf("bearerToken = (%q, %v), want (%q, %v)", got, ok, tc.token, tc.ok)
			}
		})
	}
}
