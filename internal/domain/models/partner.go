// internal/domain/models/partner.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Social link field names stored as top-level partner fields.
const (
	LinkFieldX         = "link_x"
	LinkFieldMeta      = "link_meta"
	LinkFieldInstagram = "link_instagram"
)

// LinkPrefix marks a partner field as a social link.
const LinkPrefix = "link"

// WebsiteLink is a named external resource shown in the partner's resources panel.
type WebsiteLink struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// Partner is an organization with branding and a campaign hashtag.
//
// Social links other than the three well-known platforms are kept in
// ExtraLinks in Mongo and flattened into top-level link_* keys in JSON.
type Partner struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	NameCI           string             `bson:"name_ci" json:"-"` // ← always stored
	Permalink        string             `bson:"permalink" json:"permalink"`
	PrimaryHashtag   string             `bson:"primary_hashtag" json:"primary_hashtag"`
	SecondaryHashtag string             `bson:"secondary_hashtag,omitempty" json:"secondary_hashtag,omitempty"`
	LogoURL          string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`

	LinkX         string            `bson:"link_x,omitempty" json:"link_x"`
	LinkMeta      string            `bson:"link_meta,omitempty" json:"link_meta"`
	LinkInstagram string            `bson:"link_instagram,omitempty" json:"link_instagram"`
	ExtraLinks    map[string]string `bson:"extra_links,omitempty" json:"-"`

	WebsiteLinks []WebsiteLink `bson:"website_links,omitempty" json:"website_links"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LinkFields returns every social link field keyed by field name, including
// empty ones. Extra entries whose key lacks the link prefix are skipped.
func (p Partner) LinkFields() map[string]string {
	fields := map[string]string{
		LinkFieldX:         p.LinkX,
		LinkFieldMeta:      p.LinkMeta,
		LinkFieldInstagram: p.LinkInstagram,
	}
	for k, v := range p.ExtraLinks {
		if !strings.HasPrefix(k, LinkPrefix) {
			continue
		}
		if _, known := fields[k]; known {
			continue
		}
		fields[k] = v
	}
	return fields
}

// partnerAlias strips the JSON methods so the struct tags can be reused.
type partnerAlias Partner

// MarshalJSON flattens ExtraLinks into top-level link_* keys.
func (p Partner) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(partnerAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.ExtraLinks) == 0 {
		return base, nil
	}

	var flat map[string]any
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, err
	}
	for k, v := range p.ExtraLinks {
		if _, taken := flat[k]; taken || !strings.HasPrefix(k, LinkPrefix) {
			continue
		}
		flat[k] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON collects unknown link_* keys into ExtraLinks.
func (p *Partner) UnmarshalJSON(b []byte) error {
	var a partnerAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if !strings.HasPrefix(k, LinkPrefix) {
			continue
		}
		switch k {
		case LinkFieldX, LinkFieldMeta, LinkFieldInstagram:
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("partner field %s: %w", k, err)
		}
		if a.ExtraLinks == nil {
			a.ExtraLinks = make(map[string]string)
		}
		a.ExtraLinks[k] = s
	}

	*p = Partner(a)
	return nil
}
