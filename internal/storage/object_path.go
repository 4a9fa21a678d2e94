package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch + 32)
		}
	}
	return b.String()
}

func normalizeExtension(ext string) string {
	ext = sanitizePathSegment(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return "bin"
	}
	return ext
}

// buildObjectPath returns category/YYYY/MM/DD/name.ext.
func buildObjectPath(category, baseName, ext string, now time.Time) string {
	now = now.UTC()
	category = sanitizePathSegment(category)
	if category == "" {
		category = "misc"
	}
	base := strings.Trim(sanitizePathSegment(strings.ReplaceAll(baseName, " ", "-")), "-_")
	if base == "" {
		base = fmt.Sprintf("%d", now.UnixNano())
	}
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())
	return path.Join(category, datedir, base+"."+normalizeExtension(ext))
}

func detectContentType(ext string) string {
	if t := mime.TypeByExtension("." + normalizeExtension(ext)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}
