// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package http

const (
	StatusOK uint16 = 200 // RFC 7231, 6.3.1

	StatusForbidden        uint16 = 403 // RFC 7231, 6.5.3
	StatusNotFound         uint16 = 404 // RFC 7231, 6.5.4
	StatusMethodNotAllowed uint16 = 405 // RFC 7231, 6.5.5

	StatusNotImplemented uint16 = 501 // RFC 7231, 6.6.2
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = map[uint16]string{
		StatusOK: "OK",

		StatusForbidden:        "Forbidden",
		StatusNotFound:         "Not Found",
		StatusMethodNotAllowed: "Method Not Allowed",

		StatusNotImplemented: "Not Implemented",
	}
)

// StatusText returns a text for the HTTP status code.
func StatusText(code uint16) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return unknownStatusCode
}
