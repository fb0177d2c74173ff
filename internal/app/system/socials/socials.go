// Package socials turns a partner's link_* fields into renderable social links.
package socials

import (
	"sort"
	"strings"

	"github.com/dalemusser/partnerstats/internal/domain/models"
)

// Icon names understood by the social_icon template.
const (
	IconTwitter   = "twitter"
	IconFacebook  = "facebook"
	IconInstagram = "instagram"
)

// Link is one social link to render. Icon is empty for platforms we have
// no artwork for; the anchor is still rendered.
type Link struct {
	Field string
	URL   string
	Icon  string
}

// IconFor maps a link field name to an icon by its platform token,
// the second "_"-separated part: link_x → twitter.
func IconFor(field string) string {
	parts := strings.Split(field, "_")
	if len(parts) < 2 {
		return ""
	}
	switch parts[1] {
	case "x":
		return IconTwitter
	case "meta":
		return IconFacebook
	case "instagram":
		return IconInstagram
	default:
		return ""
	}
}

// platform order for display; unknown fields follow, sorted by name.
var order = map[string]int{
	models.LinkFieldX:         0,
	models.LinkFieldMeta:      1,
	models.LinkFieldInstagram: 2,
}

// Collect keeps fields whose name starts with "link" and whose value is
// non-empty.
func Collect(fields map[string]string) []Link {
	var out []Link
	for field, url := range fields {
		if !strings.HasPrefix(field, models.LinkPrefix) || url == "" {
			continue
		}
		out = append(out, Link{Field: field, URL: url, Icon: IconFor(field)})
	}

	sort.Slice(out, func(i, j int) bool {
		oi, iKnown := order[out[i].Field]
		oj, jKnown := order[out[j].Field]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i].Field < out[j].Field
		}
	})
	return out
}
