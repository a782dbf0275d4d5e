package templates

// DefaultFooterNote is shown in the shared layout when a page does not supply custom text.
const DefaultFooterNote = "Platforms and games are also available as JSON under /platforms and /games."

// HomePageData contains the values rendered on the landing page.
type HomePageData struct {
	Title      string
	Subtitle   string
	FooterNote string
}

// PlatformView is a single row of the platform listing.
type PlatformView struct {
	Name     string
	Slug     string
	URL      string
	GamesURL string
}

// PlatformListPageData bundles template data for the platform listing page.
type PlatformListPageData struct {
	Title      string
	Platforms  []PlatformView
	FooterNote string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Title       string
	StatusLabel string
	Message     string
	FooterNote  string
}
