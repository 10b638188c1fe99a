package settings

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromRequestTrimsText(t *testing.T) {
	form := url.Values{
		"libraryPath":       {"  /photos/library \n"},
		"collectorSchedule": {" 0 */2 * * * "},
		"maxWorkers":        {"3"},
		"thumbnailSize":     {"200"},
	}

	r := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got := SettingsFromRequest(r)

	assert.Equal(t, "/photos/library", got.LibraryPath)
	assert.Equal(t, "0 */2 * * *", got.CollectorSchedule)
	assert.Equal(t, 3, got.MaxWorkers)
	assert.Equal(t, 200, got.ThumbnailSize)
}
