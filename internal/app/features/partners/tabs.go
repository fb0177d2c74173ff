// internal/app/features/partners/tabs.go
package partners

import "net/url"

// TabLeaderboard is the default and currently only dashboard tab.
const TabLeaderboard = "leaderboard"

type tab struct {
	ID    string
	Title string
}

var tabData = []tab{
	{ID: TabLeaderboard, Title: "Leaderboard"},
}

func knownTab(name string) bool {
	for _, t := range tabData {
		if t.ID == name {
			return true
		}
	}
	return false
}

func statsPath(partnerRef, tabID string) string {
	return "/partners/" + url.PathEscape(partnerRef) + "/stats/" + url.PathEscape(tabID)
}

func buildTabs(partnerRef, active string) []tabVM {
	out := make([]tabVM, 0, len(tabData))
	for _, t := range tabData {
		out = append(out, tabVM{
			ID:     t.ID,
			Title:  t.Title,
			URL:    statsPath(partnerRef, t.ID),
			Active: t.ID == active,
		})
	}
	return out
}
