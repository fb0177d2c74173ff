// internal/app/features/partners/leaderboard.go
package partners

import (
	"net/url"
	"strings"

	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/dalemusser/partnerstats/internal/app/system/ohsome"
	"github.com/dalemusser/partnerstats/internal/domain/models"
	"github.com/dustin/go-humanize"
)

const ohsomeDashboardURL = "https://stats.now.ohsome.org/dashboard#hashtag="

func buildLeaderboard(partner models.Partner, stats *ohsome.Stats) leaderboardData {
	hashtag := normalize.Hashtag(partner.PrimaryHashtag)

	data := leaderboardData{
		PartnerName:       partner.Name,
		SecondaryHashtags: splitHashtags(partner.SecondaryHashtag),
	}
	if hashtag != "" {
		data.Hashtag = "#" + hashtag
		data.DashboardURL = ohsomeDashboardURL + url.QueryEscape(hashtag)
	}
	if stats == nil {
		return data
	}

	data.HasStats = true
	data.Cards = []statCard{
		{Label: "Contributors", Value: humanize.Comma(int64(stats.Users))},
		{Label: "Total edits", Value: humanize.Comma(int64(stats.Edits))},
		{Label: "Buildings mapped", Value: humanize.Comma(int64(stats.Buildings))},
		{Label: "Km of roads mapped", Value: humanize.FormatFloat("#,###.#", stats.Roads)},
		{Label: "Changesets", Value: humanize.Comma(int64(stats.Changesets))},
	}
	if t, ok := stats.LatestTime(); ok {
		data.UpdatedAgo = humanize.Time(t)
		data.UpdatedAtFormatted = t.UTC().Format("Jan 2, 2006 15:04 UTC")
	}
	return data
}

// splitHashtags turns a comma-separated list into "#tag" entries.
func splitHashtags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if tag := normalize.Hashtag(part); tag != "" {
			out = append(out, "#"+tag)
		}
	}
	return out
}
