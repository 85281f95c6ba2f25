package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Rendered invite pages are cached on disk under cache/invite/. An
// apply or a wedding deletion clears the page so stale snapshots are
// never served.

// InvitePath returns the cache file path for a wedding's invite page.
func InvitePath(weddingID uint) string {
	hash := hashKey(fmt.Sprintf("invite:%d", weddingID))
	return filepath.Join("cache", "invite", fmt.Sprintf("%d_%s.html", weddingID, hash[:16]))
}

// hashKey generates an xxHash hex digest for the given string
func hashKey(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// WriteInvite writes a rendered invite page to its cache file.
func WriteInvite(weddingID uint, html string) error {
	path := InvitePath(weddingID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0644)
}

// ReadInvite reads a cached invite page if present and not expired.
func ReadInvite(weddingID uint, maxAge time.Duration) (string, bool) {
	path := InvitePath(weddingID)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// ClearInvite removes a wedding's cached invite page. A missing file
// is fine.
func ClearInvite(weddingID uint) error {
	err := os.Remove(InvitePath(weddingID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearOld removes cached pages older than maxAge.
func ClearOld(maxAge time.Duration) error {
	root := filepath.Join("cache", "invite")

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".html") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}
		return nil
	})
}
