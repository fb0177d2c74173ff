// internal/app/features/partnerapi/validate.go
package partnerapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// validatePartner trims input in place and rejects bad names and URLs.
func validatePartner(p *models.Partner) error {
	p.Name = normalize.Name(p.Name)
	if p.Name == "" {
		return errors.New("name is required")
	}
	p.PrimaryHashtag = strings.TrimSpace(p.PrimaryHashtag)
	p.SecondaryHashtag = strings.TrimSpace(p.SecondaryHashtag)

	p.LogoURL = strings.TrimSpace(p.LogoURL)
	if p.LogoURL != "" && !urlutil.IsValidAbsHTTPURL(p.LogoURL) {
		return errors.New("logo_url must be an absolute http(s) URL")
	}

	// Validate in field order so the error is stable.
	fields := p.LinkFields()
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if !strings.HasPrefix(k, models.LinkPrefix+"_") {
			return fmt.Errorf("%s: social link fields must start with link_", k)
		}
		v := strings.TrimSpace(fields[k])
		if v != "" && !urlutil.IsValidAbsHTTPURL(v) {
			return fmt.Errorf("%s must be an absolute http(s) URL", k)
		}
	}
	p.LinkX = strings.TrimSpace(p.LinkX)
	p.LinkMeta = strings.TrimSpace(p.LinkMeta)
	p.LinkInstagram = strings.TrimSpace(p.LinkInstagram)
	for k, v := range p.ExtraLinks {
		p.ExtraLinks[k] = strings.TrimSpace(v)
	}

	for i, l := range p.WebsiteLinks {
		l.Name = strings.TrimSpace(l.Name)
		l.URL = strings.TrimSpace(l.URL)
		if l.Name == "" {
			return fmt.Errorf("website_links[%d]: name is required", i)
		}
		if !urlutil.IsValidAbsHTTPURL(l.URL) {
			return fmt.Errorf("website_links[%d]: url must be an absolute http(s) URL", i)
		}
		p.WebsiteLinks[i] = l
	}
	return nil
}
