package http

import (
	"sort"
	"sync/atomic"
)

// Router maps exact request paths to handlers. Registration happens before
// the server starts; once frozen the table is only read.
type Router struct {
	routes map[string]Route
	frozen atomic.Bool
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[string]Route),
	}
}

// GET registers handler for path. A later registration for the same path
// replaces the earlier one.
func (router *Router) GET(path string, handler Handler, middleware ...Middleware) {
	if router.frozen.Load() {
		panic("http: route registered after server start: " + path)
	}

	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.routes[path] = Route{
		Path:    path,
		Handler: handler,
	}
}

// Lookup matches path exactly. The query must already be stripped.
func (router *Router) Lookup(path string) (Handler, bool) {
	route, found := router.routes[path]
	if !found {
		return nil, false
	}
	return route.Handler, true
}

// Freeze marks the table read-only.
func (router *Router) Freeze() {
	router.frozen.Store(true)
}

// Routes returns the registered routes ordered by path.
func (router *Router) Routes() []Route {
	routes := make([]Route, 0, len(router.routes))
	for _, route := range router.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	return routes
}
