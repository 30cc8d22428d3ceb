package update

import (
	"strings"

	"github.com/samber/lo"
)

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the subset of the GitHub release payload the checker reads.
type Release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Body    *string `json:"body"`
	Assets  []Asset `json:"assets"`
}

// Result is what the front end receives from a check.
type Result struct {
	HasUpdate      bool    `json:"has_update"`
	CurrentVersion string  `json:"current_version"`
	LatestVersion  string  `json:"latest_version"`
	DownloadURL    string  `json:"download_url"`
	ReleaseNotes   *string `json:"release_notes"`
}

// SelectDownloadURL picks the installer to offer: a *setup*.exe first, then
// any .msi. ok is false when neither exists.
func SelectDownloadURL(assets []Asset) (url string, ok bool) {
	asset, ok := lo.Find(assets, func(a Asset) bool {
		name := strings.ToLower(a.Name)
		return strings.Contains(name, "setup") && strings.HasSuffix(name, ".exe")
	})
	if !ok {
		asset, ok = lo.Find(assets, func(a Asset) bool {
			return strings.HasSuffix(strings.ToLower(a.Name), ".msi")
		})
	}
	if !ok {
		return "", false
	}
	return asset.BrowserDownloadURL, true
}

// trimVersionPrefix drops one leading "v" from a tag like "v1.2.0".
func trimVersionPrefix(tag string) string {
	tag = strings.TrimSpace(tag)
	if strings.HasPrefix(tag, "v") || strings.HasPrefix(tag, "V") {
		return tag[1:]
	}
	return tag
}
