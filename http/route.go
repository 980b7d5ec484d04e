package http

type Route struct {
	Path    string
	Handler Handler
}
