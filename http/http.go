package http

import (
	"errors"
	"strings"
)

const (
	DefaultReadBufferSize  = 4096 // 4kB
	DefaultWriteBufferSize = 4096 // 4kB
	DefaultWorkers         = 10
	MaxRequestLineSize     = 8 * 1024 // 8kB

	MethodGet  = "GET"
	MethodPost = "POST"
)

var (
	ErrMalformedRequestLine = errors.New("http: malformed request line")
	ErrServerClosed         = errors.New("http: server closed")
	ErrPoolClosed           = errors.New("http: worker pool closed")
)

var crlf = []byte("\r\n")

// Handler produces the text/plain body for a matched route.
type Handler func(req *Request) string

// splitFields splits s around sep and drops trailing empty fields, so
// "GET " yields a single field and "a=" yields ["a"].
func splitFields(s, sep string) []string {
	fields := strings.Split(s, sep)
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
