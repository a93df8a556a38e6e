package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const OriginalPrefix = "resumes/original/"

var unsafeName = strings.NewReplacer("/", "_", `\`, "_")

// SafeName strips path separators from a client supplied file name.
func SafeName(name string) string {
	name = unsafeName.Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// OriginalObjectKey is the object key of an uploaded original:
// resumes/original/<unix>_<8 hex>_<safe name>.
func OriginalObjectKey(fileName string, now time.Time) string {
	uniq := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%d_%s_%s", OriginalPrefix, now.Unix(), uniq, SafeName(fileName))
}

// CleanKey reports whether key is a relative object key with no empty, "."
// or ".." segments. Dots inside a segment are fine.
func CleanKey(key string) bool {
	if key == "" || path.Clean(key) != key || strings.HasPrefix(key, "/") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// IsOriginalKey reports whether key names an object under OriginalPrefix.
func IsOriginalKey(key string) bool {
	return strings.HasPrefix(key, OriginalPrefix) && len(key) > len(OriginalPrefix) && CleanKey(key)
}

// joinURL appends an object key to a base URL, escaping nothing but slashes
// that would double up.
func joinURL(base, objectName string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path.Clean("/"+objectName), "/")
}
