package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDownloadURL(t *testing.T) {
	tests := []struct {
		name   string
		assets []Asset
		want   string
		ok     bool
	}{
		{
			name: "setup exe preferred over msi",
			assets: []Asset{
				{Name: "App.msi", BrowserDownloadURL: "msi"},
				{Name: "App-Setup.exe", BrowserDownloadURL: "setup"},
			},
			want: "setup",
			ok:   true,
		},
		{
			name:   "msi when no setup exe",
			assets: []Asset{{Name: "App.msi", BrowserDownloadURL: "msi"}},
			want:   "msi",
			ok:     true,
		},
		{
			name: "plain exe without setup is skipped",
			assets: []Asset{
				{Name: "App.exe", BrowserDownloadURL: "exe"},
				{Name: "APP.MSI", BrowserDownloadURL: "msi"},
			},
			want: "msi",
			ok:   true,
		},
		{
			name: "first matching setup wins",
			assets: []Asset{
				{Name: "app_setup_x64.EXE", BrowserDownloadURL: "first"},
				{Name: "app-setup-arm64.exe", BrowserDownloadURL: "second"},
			},
			want: "first",
			ok:   true,
		},
		{
			name:   "neither",
			assets: []Asset{{Name: "App.dmg", BrowserDownloadURL: "dmg"}, {Name: "setup.zip", BrowserDownloadURL: "zip"}},
			ok:     false,
		},
		{
			name: "empty",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectDownloadURL(tt.assets)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrimVersionPrefix(t *testing.T) {
	assert.Equal(t, "1.3.0", trimVersionPrefix("v1.3.0"))
	assert.Equal(t, "1.3.0", trimVersionPrefix("V1.3.0"))
	assert.Equal(t, "1.3.0", trimVersionPrefix(" 1.3.0 "))
	assert.Equal(t, "v1.3.0", trimVersionPrefix("vv1.3.0"))
}
