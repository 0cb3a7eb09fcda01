// Package navigation builds the menu and page title context handed to the templates.
package navigation

// Link is one entry of the top menu.
type Link struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state of a rendered page.
type Context struct {
	AppTitle  string
	PageTitle string
	Platform  string
	Links     []Link
}

// menu lists the pages of the settings surface in display order.
var menu = []Link{
	{Title: "Settings", URL: "/settings"},
	{Title: "Frame", URL: "/frame.png"},
	{Title: "Status", URL: "/api/status"},
	{Title: "Metrics", URL: "/metrics"},
}

// NewContext returns the context of the page served at activeURL.
func NewContext(appTitle, pageTitle, platform, activeURL string) *Context {
	links := make([]Link, len(menu))
	for i, l := range menu {
		l.Active = l.URL == activeURL
		links[i] = l
	}

	return &Context{
		AppTitle:  appTitle,
		PageTitle: pageTitle,
		Platform:  platform,
		Links:     links,
	}
}

// IsActive reports whether url is the current page.
func (c *Context) IsActive(url string) bool {
	for _, l := range c.Links {
		if l.URL == url {
			return l.Active
		}
	}

	return false
}
