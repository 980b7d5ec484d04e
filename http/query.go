package http

// Query is the raw query string of a request target. Values are returned
// verbatim; percent-escapes are not decoded.
type Query struct {
	raw     string
	present bool
}

func ParseQuery(raw string, present bool) Query {
	return Query{raw: raw, present: present && raw != ""}
}

// Raw returns the query string and whether the target carried one.
func (query Query) Raw() (string, bool) {
	return query.raw, query.present
}

// Value returns the value of the first pair whose key equals name. A bare
// key without "=" matches but has no value, and ends the search.
func (query Query) Value(name string) (string, bool) {
	if !query.present {
		return "", false
	}

	for _, pair := range splitFields(query.raw, "&") {
		parts := splitFields(pair, "=")

		key := ""
		if len(parts) > 0 {
			key = parts[0]
		}
		if key != name {
			continue
		}

		if len(parts) < 2 {
			return "", false
		}
		return parts[1], true
	}

	return "", false
}
