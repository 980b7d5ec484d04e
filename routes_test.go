package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	nethttp "net/http"
	"testing"

	"github.com/freekieb7/webroute/http"
	"github.com/freekieb7/webroute/test"
)

func TestHelloHandler(t *testing.T) {
	req, err := http.ParseRequestLine("GET /App/hello?name=Ada HTTP/1.1")
	test.AssertNoError(t, err)
	test.AssertTrue(t, "Hello Ada", helloHandler(req))

	req, err = http.ParseRequestLine("GET /App/hello HTTP/1.1")
	test.AssertNoError(t, err)
	test.AssertTrue(t, "Hello null", helloHandler(req))
}

func TestPiHandler(t *testing.T) {
	test.AssertTrue(t, "3.141592653589793", piHandler(&http.Request{}))
}

func TestRegisteredRoutesOverTCP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := http.NewRouter()
	registerRoutes(router, http.RecoverMiddleware(logger), http.LogMiddleware(logger))

	server, err := http.NewServer(router, http.Options{
		Workers:    2,
		StaticRoot: t.TempDir(),
		Logger:     logger,
	})
	test.AssertNoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	test.AssertNoError(t, err)

	go server.Serve(context.Background(), listener)
	defer server.Shutdown(context.Background())

	for target, want := range map[string]string{
		"/App/hello?name=Ada": "Hello Ada",
		"/App/pi":             "3.141592653589793",
	} {
		conn, err := net.Dial("tcp", listener.Addr().String())
		if err != nil {
			t.Fatal(err)
		}

		conn.Write([]byte("GET " + target + " HTTP/1.1\r\n\r\n"))

		resp, err := nethttp.ReadResponse(bufio.NewReader(conn), nil)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		conn.Close()

		test.AssertTrue(t, 200, resp.StatusCode)
		test.AssertTrue(t, "text/plain", resp.Header.Get("Content-Type"))
		test.AssertTrue(t, want, string(body))
	}
}
