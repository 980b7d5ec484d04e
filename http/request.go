package http

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Request struct {
	Method string
	Path   string
	Query  Query

	// ConnID identifies the connection the request arrived on.
	ConnID string

	ctx context.Context
}

// ParseRequestLine splits "METHOD SP TARGET [SP VERSION]" and separates the
// target into path and query on the first '?'.
func ParseRequestLine(line string) (*Request, error) {
	tokens := splitFields(line, " ")
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	path, rawQuery, hasQuery := strings.Cut(tokens[1], "?")

	return &Request{
		Method: tokens[0],
		Path:   path,
		Query:  ParseQuery(rawQuery, hasQuery),
		ctx:    context.Background(),
	}, nil
}

// Value returns the first query value for name.
func (req *Request) Value(name string) (string, bool) {
	return req.Query.Value(name)
}

func (req *Request) Context() context.Context {
	if req.ctx == nil {
		return context.Background()
	}
	return req.ctx
}

// WithContext returns a shallow copy of req carrying ctx.
func (req *Request) WithContext(ctx context.Context) *Request {
	clone := *req
	clone.ctx = ctx
	return &clone
}

// readRequestLine reads one line and strips its terminator. A line cut short
// by EOF is still returned; io.EOF is only reported when nothing was read.
// Lines longer than MaxRequestLineSize are malformed.
func readRequestLine(reader *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(line)+len(chunk) > MaxRequestLineSize {
			return "", fmt.Errorf("%w: longer than %d bytes", ErrMalformedRequestLine, MaxRequestLineSize)
		}
		line = append(line, chunk...)

		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if !errors.Is(err, io.EOF) || len(line) == 0 {
			return "", err
		}
		break
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return string(line), nil
}
