package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ErrNilACFLogMsg is used if the app, cfg or face pointer is nil.
	ErrNilACFLogMsg = "app, cfg or face is nil"
)
