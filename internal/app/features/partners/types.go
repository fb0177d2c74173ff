// internal/app/features/partners/types.go
package partners

import (
	"html/template"

	"github.com/dalemusser/partnerstats/internal/app/system/socials"
	"github.com/dalemusser/partnerstats/internal/app/system/viewdata"
	"github.com/dalemusser/partnerstats/internal/domain/models"
)

// placeholderRowCount matches the height of a loaded leaderboard.
const placeholderRowCount = 26

type headerVM struct {
	ID      string
	Name    string
	LogoURL string
}

type tabVM struct {
	ID     string
	Title  string
	URL    string
	Active bool
}

type resourcesVM struct {
	Links       []models.WebsiteLink
	Description template.HTML
}

func (r resourcesVM) Empty() bool {
	return len(r.Links) == 0 && r.Description == ""
}

// pageData is the view model for the dashboard shell.
type pageData struct {
	viewdata.BaseVM

	Partner   headerVM
	Tabs      []tabVM
	ActiveTab string
	LearnURL  string
	Resources resourcesVM
	Socials   []socials.Link

	// PanelURL is empty for unknown tabs, which render no content.
	PanelURL        string
	PlaceholderRows []struct{}
}

type statCard struct {
	Label string
	Value string
}

// leaderboardData is the view model for the leaderboard panel.
type leaderboardData struct {
	PartnerName        string
	Hashtag            string
	SecondaryHashtags  []string
	DashboardURL       string
	HasStats           bool
	Cards              []statCard
	UpdatedAgo         string
	UpdatedAtFormatted string
}

type notFoundData struct {
	Ref string
}
