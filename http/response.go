package http

import (
	"bufio"
	"strconv"
)

const (
	notFoundBody  = "<html><body><h1>File Not Found</h1></body></html>"
	forbiddenBody = "<html><body><h1>Forbidden</h1></body></html>"
)

type header struct {
	name  string
	value string
}

// Response is written exactly as built: header names keep their case and
// no Content-Length is added implicitly.
type Response struct {
	Status  uint16
	Headers []header
	Body    []byte
}

// SetHeader replaces an existing header with the same name or appends it.
func (res *Response) SetHeader(name, value string) {
	for i := range res.Headers {
		if res.Headers[i].name == name {
			res.Headers[i].value = value
			return
		}
	}
	res.Headers = append(res.Headers, header{name: name, value: value})
}

func (res *Response) Header(name string) (string, bool) {
	for _, h := range res.Headers {
		if h.name == name {
			return h.value, true
		}
	}
	return "", false
}

func (res *Response) WithText(payload string) *Response {
	res.SetHeader("Content-Type", "text/plain")
	res.Body = []byte(payload)
	return res
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

// WriteTo serializes the status line, headers, blank line and body, then
// flushes the writer.
func (res *Response) WriteTo(bw *bufio.Writer) error {
	bw.WriteString("HTTP/1.1 ")
	bw.WriteString(strconv.Itoa(int(res.Status)))
	bw.WriteByte(' ')
	bw.WriteString(StatusText(res.Status))
	bw.Write(crlf)

	for _, h := range res.Headers {
		bw.WriteString(h.name)
		bw.WriteString(": ")
		bw.WriteString(h.value)
		bw.Write(crlf)
	}
	bw.Write(crlf)

	if len(res.Body) > 0 {
		bw.Write(res.Body)
	}

	return bw.Flush()
}

func textResponse(body string) *Response {
	res := &Response{Status: StatusOK}
	return res.WithText(body)
}

func htmlResponse(status uint16, body string) *Response {
	res := &Response{Status: status}
	res.SetHeader("Content-type", "text/html")
	res.Body = []byte(body)
	return res
}
