// internal/app/store/partners/partnerstore.go
package partnerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/dalemusser/partnerstats/internal/app/system/paging"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicatePermalink = errors.New("a partner with this permalink already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("partners")}
}

func (s *Store) Create(ctx context.Context, p models.Partner) (models.Partner, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Permalink = permalinkFor(p)
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Partner{}, ErrDuplicatePermalink
		}
		return models.Partner{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Partner, error) {
	var p models.Partner
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Partner{}, err
	}
	return p, nil
}

func (s *Store) GetByPermalink(ctx context.Context, permalink string) (models.Partner, error) {
	var p models.Partner
	err := s.c.FindOne(ctx, bson.M{"permalink": normalize.Permalink(permalink)}).Decode(&p)
	if err != nil {
		return models.Partner{}, err
	}
	return p, nil
}

// Resolve looks a partner up by ObjectID hex, falling back to permalink.
// Returns mongo.ErrNoDocuments when neither matches.
func (s *Store) Resolve(ctx context.Context, idOrPermalink string) (models.Partner, error) {
	ref := strings.TrimSpace(idOrPermalink)
	if ref == "" {
		return models.Partner{}, mongo.ErrNoDocuments
	}
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		p, err := s.GetByID(ctx, oid)
		if err == nil || !errors.Is(err, mongo.ErrNoDocuments) {
			return p, err
		}
	}
	return s.GetByPermalink(ctx, ref)
}

// Update replaces the partner's mutable fields and refreshes UpdatedAt.
// A blank Permalink keeps the stored one so existing links keep working.
// Returns mongo.ErrNoDocuments when id does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Partner) (models.Partner, error) {
	p.Name = normalize.Name(p.Name)
	set := bson.M{
		"name":              p.Name,
		"name_ci":           text.Fold(p.Name),
		"primary_hashtag":   p.PrimaryHashtag,
		"secondary_hashtag": p.SecondaryHashtag,
		"logo_url":          p.LogoURL,
		"description":       p.Description,
		"link_x":            p.LinkX,
		"link_meta":         p.LinkMeta,
		"link_instagram":    p.LinkInstagram,
		"extra_links":       p.ExtraLinks,
		"website_links":     p.WebsiteLinks,
		"updated_at":        time.Now().UTC(),
	}

	if pl := normalize.Permalink(p.Permalink); pl != "" {
		set["permalink"] = pl
	}

	var updated models.Partner
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Partner{}, ErrDuplicatePermalink
		}
		return models.Partner{}, err
	}
	return updated, nil
}

// Delete removes a partner by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns one page of partners ordered by name, plus the cursor for
// the next page ("" on the last page).
func (s *Store) List(ctx context.Context, page paging.Page) ([]models.Partner, string, error) {
	cur, err := s.c.Find(ctx, page.Filter("name_ci"), page.FindOptions("name_ci"))
	if err != nil {
		return nil, "", fmt.Errorf("find partners: %w", err)
	}
	defer cur.Close(ctx)

	partners := []models.Partner{}
	if err := cur.All(ctx, &partners); err != nil {
		return nil, "", fmt.Errorf("decode partners: %w", err)
	}
	next := paging.Trim(page, &partners,
		func(p models.Partner) string { return p.NameCI },
		func(p models.Partner) primitive.ObjectID { return p.ID })
	return partners, next, nil
}

func permalinkFor(p models.Partner) string {
	if pl := normalize.Permalink(p.Permalink); pl != "" {
		return pl
	}
	return normalize.Permalink(p.Name)
}
