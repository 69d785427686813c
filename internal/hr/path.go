package hr

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"runtime"
	"strings"
)

// ErrNotInDirectory is returned by RelativePath when the path is not the
// directory itself or nested under it.
var ErrNotInDirectory = errors.New("path is not within directory")

const fileURLPrefix = "file://"

// DefaultFoldCase reports whether paths are compared case-insensitively by
// default on this platform.
func DefaultFoldCase() bool {
	return runtime.GOOS == "windows"
}

// DecodeResourceURL turns a history resource URL such as
// "file:///c%3A/Users/me/proj/main.go" into a plain path ("c:/Users/me/proj/main.go").
// POSIX paths keep their leading slash. Values without the file:// scheme are
// only percent-decoded.
func DecodeResourceURL(resource string) (string, error) {
	p := strings.TrimPrefix(resource, fileURLPrefix)

	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("decoding resource %q: %w", resource, err)
	}

	// "/c:/..." -> "c:/..."
	if len(decoded) > 1 && decoded[0] == '/' && hasDrivePrefix(decoded[1:]) {
		decoded = decoded[1:]
	}
	return decoded, nil
}

// NormalizePath makes a path comparable: file:// URLs are decoded, separators
// are unified to '/', "." and ".." segments are resolved and trailing
// separators are removed. When fold is true the result is lower-cased.
func NormalizePath(p string, fold bool) string {
	if strings.HasPrefix(p, fileURLPrefix) {
		if decoded, err := DecodeResourceURL(p); err == nil {
			p = decoded
		}
	}

	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)

	if fold {
		p = strings.ToLower(p)
	}
	return p
}

// IsPathInDirectory reports whether p is dir itself or lies below it.
func IsPathInDirectory(p, dir string, fold bool) bool {
	_, ok := cutDirectory(NormalizePath(p, false), NormalizePath(dir, false), fold)
	return ok
}

// RelativePath returns p relative to dir using '/' separators. It returns ""
// when p and dir are the same path, and an error wrapping ErrNotInDirectory
// when p is outside dir. Letter case of the result follows p even when the
// comparison is case-insensitive.
func RelativePath(p, dir string, fold bool) (string, error) {
	rel, ok := cutDirectory(NormalizePath(p, false), NormalizePath(dir, false), fold)
	if !ok {
		return "", fmt.Errorf("%w: %s is not within %s", ErrNotInDirectory, p, dir)
	}
	return rel, nil
}

// cutDirectory strips the normalized directory prefix from a normalized path.
func cutDirectory(p, dir string, fold bool) (string, bool) {
	if equalPath(p, dir, fold) {
		return "", true
	}

	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if len(p) <= len(prefix) || !equalPath(p[:len(prefix)], prefix, fold) {
		return "", false
	}
	return p[len(prefix):], true
}

func equalPath(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
