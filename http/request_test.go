package http

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseRequestLine(t *testing.T) {
	req, err := ParseRequestLine("GET /App/hello?name=Ada HTTP/1.1")
	if err != nil {
		t.Fatal(err)
	}

	if req.Method != "GET" {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if req.Path != "/App/hello" {
		t.Errorf("expected /App/hello, got %s", req.Path)
	}

	name, found := req.Value("name")
	if !found || name != "Ada" {
		t.Errorf("expected Ada, got %q (found=%v)", name, found)
	}
}

func TestParseRequestLineSplitsOnFirstQuestionMark(t *testing.T) {
	req, err := ParseRequestLine("GET /a?x=1?y=2 HTTP/1.0")
	if err != nil {
		t.Fatal(err)
	}

	if req.Path != "/a" {
		t.Errorf("expected /a, got %s", req.Path)
	}

	raw, _ := req.Query.Raw()
	if raw != "x=1?y=2" {
		t.Errorf("expected x=1?y=2, got %s", raw)
	}
}

func TestParseRequestLineWithoutVersion(t *testing.T) {
	req, err := ParseRequestLine("GET /index.html")
	if err != nil {
		t.Fatal(err)
	}
	if req.Path != "/index.html" {
		t.Errorf("expected /index.html, got %s", req.Path)
	}
	if _, present := req.Query.Raw(); present {
		t.Error("expected no query")
	}
}

func TestParseRequestLineMalformed(t *testing.T) {
	for _, line := range []string{"", "GET", "GET ", "   "} {
		_, err := ParseRequestLine(line)
		if !errors.Is(err, ErrMalformedRequestLine) {
			t.Errorf("%q: expected ErrMalformedRequestLine, got %v", line, err)
		}
	}
}

func TestReadRequestLine(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: example\r\n\r\n"))

	line, err := readRequestLine(br)
	if err != nil {
		t.Fatal(err)
	}
	if line != "GET / HTTP/1.1" {
		t.Errorf("unexpected line %q", line)
	}
}

func TestReadRequestLineUnterminated(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("GET /x"))

	line, err := readRequestLine(br)
	if err != nil {
		t.Fatal(err)
	}
	if line != "GET /x" {
		t.Errorf("unexpected line %q", line)
	}
}

func TestReadRequestLineEmpty(t *testing.T) {
	br := bufio.NewReader(strings.NewReader(""))

	_, err := readRequestLine(br)
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReadRequestLineSpansBufferFills(t *testing.T) {
	target := "/" + strings.Repeat("a", 6000)
	br := bufio.NewReaderSize(strings.NewReader("GET "+target+" HTTP/1.1\r\n\r\n"), DefaultReadBufferSize)

	line, err := readRequestLine(br)
	if err != nil {
		t.Fatal(err)
	}
	if line != "GET "+target+" HTTP/1.1" {
		t.Errorf("unexpected line of %d bytes", len(line))
	}
}

func TestReadRequestLineTooLong(t *testing.T) {
	tests := map[string]string{
		"unterminated": "GET /" + strings.Repeat("a", 2*MaxRequestLineSize),
		"terminated":   "GET /" + strings.Repeat("a", MaxRequestLineSize) + " HTTP/1.1\r\n\r\n",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			br := bufio.NewReaderSize(strings.NewReader(raw), DefaultReadBufferSize)

			_, err := readRequestLine(br)
			if !errors.Is(err, ErrMalformedRequestLine) {
				t.Errorf("expected ErrMalformedRequestLine, got %v", err)
			}
		})
	}
}

func TestReadRequestLineAtLimit(t *testing.T) {
	raw := strings.Repeat("a", MaxRequestLineSize-2) + "\r\n"
	br := bufio.NewReaderSize(strings.NewReader(raw), DefaultReadBufferSize)

	line, err := readRequestLine(br)
	if err != nil {
		t.Fatal(err)
	}
	if len(line) != MaxRequestLineSize-2 {
		t.Errorf("expected %d bytes, got %d", MaxRequestLineSize-2, len(line))
	}
}

func BenchmarkParseRequestLine(b *testing.B) {
	for b.Loop() {
		if _, err := ParseRequestLine("GET /App/hello?name=Ada&x=1 HTTP/1.1"); err != nil {
			b.Fatal(err)
		}
	}
}
