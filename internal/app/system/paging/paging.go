// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the default number of rows in a paged list.
const PageSize = 100

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 500

// Page describes one forward keyset page: rows strictly after Cursor,
// ordered by (sortField, _id) ascending.
type Page struct {
	Limit  int
	Cursor *wafflemongo.Cursor
}

// FromRequest reads "limit" and "after" from the query string.
// A missing or invalid limit falls back to PageSize; an undecodable cursor
// starts from the beginning.
func FromRequest(r *http.Request) Page {
	return New(query.Get(r, "after"), ParseLimit(query.Get(r, "limit")))
}

// New builds a Page from an encoded cursor and limit.
func New(after string, limit int) Page {
	p := Page{Limit: limit}
	if p.Limit < 1 {
		p.Limit = PageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			p.Cursor = &c
		}
	}
	return p
}

// ParseLimit converts s to a page size. Returns PageSize if empty or invalid.
func ParseLimit(s string) int {
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// FindOptions sorts by (sortField, _id) and fetches one extra row to detect
// a following page.
func (p Page) FindOptions(sortField string) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(p.Limit + 1))
}

// Filter returns the cursor condition for the query, or an empty filter.
func (p Page) Filter(sortField string) bson.M {
	if p.Cursor == nil {
		return bson.M{}
	}
	return wafflemongo.KeysetWindow(sortField, "gt", p.Cursor.CI, p.Cursor.ID)
}

// Trim drops the look-ahead row, returning the cursor of the last kept row
// when another page follows.
func Trim[T any](p Page, rows *[]T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (next string) {
	if len(*rows) <= p.Limit {
		return ""
	}
	*rows = (*rows)[:p.Limit]
	last := (*rows)[len(*rows)-1]
	return wafflemongo.EncodeCursor(keyFn(last), idFn(last))
}
