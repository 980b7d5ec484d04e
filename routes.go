package main

import (
	"math"
	"strconv"

	"github.com/freekieb7/webroute/http"
)

func registerRoutes(router *http.Router, middleware ...http.Middleware) {
	router.GET("/App/hello", helloHandler, middleware...)
	router.GET("/App/pi", piHandler, middleware...)
}

// helloHandler greets the "name" query parameter; a missing name renders as
// "null".
func helloHandler(req *http.Request) string {
	name, found := req.Value("name")
	if !found {
		name = "null"
	}
	return "Hello " + name
}

func piHandler(req *http.Request) string {
	return strconv.FormatFloat(math.Pi, 'f', -1, 64)
}
