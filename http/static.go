package http

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/freekieb7/webroute/filesystem"
)

var contentTypes = []struct {
	suffix      string
	contentType string
}{
	{".html", "text/html"},
	{".css", "text/css"},
	{".js", "application/javascript"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
}

// ContentType maps a path suffix to its content type, defaulting to
// text/plain.
func ContentType(path string) string {
	for _, entry := range contentTypes {
		if strings.HasSuffix(path, entry.suffix) {
			return entry.contentType
		}
	}
	return "text/plain"
}

// StaticResolver serves files below Root. Nothing is cached between requests.
type StaticResolver struct {
	Root       string
	Filesystem filesystem.Filesystem
	Policy     PathPolicy
}

func NewStaticResolver(root string, fs filesystem.Filesystem, policy PathPolicy) StaticResolver {
	if fs == nil {
		fs = filesystem.NewLocalFileSystem()
	}

	return StaticResolver{
		Root:       root,
		Filesystem: fs,
		Policy:     policy,
	}
}

// Resolve builds the response for path. Missing files and paths outside the
// root are answered with 404 and 403; an error means nothing may be written.
func (resolver StaticResolver) Resolve(path string) (*Response, error) {
	candidate, allowed, err := resolver.candidate(path)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return htmlResponse(StatusForbidden, forbiddenBody), nil
	}

	// Size is taken before the existence check, as a missing file reports 0.
	size, err := resolver.Filesystem.FileSize(candidate)
	if err != nil {
		return nil, fmt.Errorf("http: size of %s: %w", candidate, err)
	}

	exists, err := resolver.Filesystem.FileExists(candidate)
	if err != nil {
		return nil, fmt.Errorf("http: stat %s: %w", candidate, err)
	}
	if !exists {
		return htmlResponse(StatusNotFound, notFoundBody), nil
	}

	data, err := resolver.Filesystem.ReadFile(candidate, size)
	if err != nil {
		return nil, fmt.Errorf("http: read %s: %w", candidate, err)
	}

	res := &Response{Status: StatusOK, Body: data}
	res.SetHeader("Content-type", ContentType(path))
	res.SetHeader("Content-length", strconv.Itoa(len(data)))
	return res, nil
}

func (resolver StaticResolver) candidate(path string) (string, bool, error) {
	if resolver.Policy == PathPolicyRaw {
		return resolver.Root + path, true, nil
	}

	root, err := resolver.Filesystem.GetAbsolutePath(resolver.Root)
	if err != nil {
		return "", false, fmt.Errorf("http: resolve web root: %w", err)
	}

	candidate := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return "", false, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, nil
	}

	return candidate, true, nil
}
