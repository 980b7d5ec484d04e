package http

import "testing"

func TestRouterLastRegistrationWins(t *testing.T) {
	router := NewRouter()
	router.GET("/App/x", func(req *Request) string { return "first" })
	router.GET("/App/x", func(req *Request) string { return "second" })

	handler, found := router.Lookup("/App/x")
	if !found {
		t.Fatal("route not found")
	}
	if got := handler(&Request{}); got != "second" {
		t.Errorf("expected second, got %s", got)
	}
	if len(router.Routes()) != 1 {
		t.Errorf("expected 1 route, got %d", len(router.Routes()))
	}
}

func TestRouterExactMatchOnly(t *testing.T) {
	router := NewRouter()
	router.GET("/App/hello", func(req *Request) string { return "hi" })

	for _, path := range []string{"/App/hello/", "/App", "/app/hello", "/App/hello?name=x"} {
		if _, found := router.Lookup(path); found {
			t.Errorf("%s should not match", path)
		}
	}
}

func TestRouterMiddlewareOrder(t *testing.T) {
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(req *Request) string {
				return name + "(" + next(req) + ")"
			}
		}
	}

	router := NewRouter()
	router.GET("/", func(req *Request) string { return "h" }, tag("a"), tag("b"))

	handler, _ := router.Lookup("/")
	if got := handler(&Request{}); got != "b(a(h))" {
		t.Errorf("unexpected wrapping %s", got)
	}
}

func TestRouterFrozen(t *testing.T) {
	router := NewRouter()
	router.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected panic when registering on a frozen router")
		}
	}()

	router.GET("/late", func(req *Request) string { return "" })
}

func TestRoutesSorted(t *testing.T) {
	router := NewRouter()
	router.GET("/b", func(req *Request) string { return "" })
	router.GET("/a", func(req *Request) string { return "" })

	routes := router.Routes()
	if routes[0].Path != "/a" || routes[1].Path != "/b" {
		t.Errorf("unexpected order %v %v", routes[0].Path, routes[1].Path)
	}
}
