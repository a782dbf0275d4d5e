package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

var (
	homeTemplate      = parsePage("html/home.html")
	platformsTemplate = parsePage("html/platforms.html")
	errorTemplate     = parsePage("html/error.html")
)

func parsePage(page string) *template.Template {
	return template.Must(
		template.New("layout.html").
			Funcs(template.FuncMap{"footer": footerNote}).
			ParseFS(files, "html/layout.html", page),
	)
}

func footerNote(note string) string {
	if note == "" {
		return DefaultFooterNote
	}
	return note
}

// HomePage renders the landing page.
func HomePage(data HomePageData) templ.Component {
	return templ.FromGoHTML(homeTemplate, data)
}

// PlatformListPage renders every platform with links to its JSON resources.
func PlatformListPage(data PlatformListPageData) templ.Component {
	return templ.FromGoHTML(platformsTemplate, data)
}

// ErrorPage renders a status label and message inside the shared layout.
func ErrorPage(data ErrorPageData) templ.Component {
	return templ.FromGoHTML(errorTemplate, data)
}
