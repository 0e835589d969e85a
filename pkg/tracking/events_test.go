package tracking

import (
	"net/http/httptest"
	"testing"

	"github.com/matst80/slask-catalog/pkg/messaging"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEventPrefersRealIp(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session", nil)
	r.Header.Set("X-Forwarded-For", "10.0.0.2")
	r.Header.Set("Accept-Language", "sv-SE")
	r.Header.Set("User-Agent", "test-agent")

	ev := NewSessionEvent("abc", "se", r)
	assert.Equal(t, "10.0.0.2", ev.Ip)
	assert.Equal(t, "sv-SE", ev.Language)
	assert.Equal(t, "test-agent", ev.UserAgent)
	assert.Equal(t, sessionEvent, ev.Event)

	r.Header.Set("X-Real-Ip", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", NewSessionEvent("abc", "se", r).Ip)
}

func TestSearchEventLeavesOpenBoundsOut(t *testing.T) {
	c := types.NewFilterCriteria()
	c.Query = "wid"
	c.PriceMin = 5
	c.StockOnly = true
	c.Categories = types.NewCategorySet("Tools", "Garden")

	ev := NewSearchEvent("abc", "se", Search{
		Criteria: c,
		Sort:     types.SortCriteria{Column: types.ColumnPrice, Direction: types.Descending},
		Results:  3,
		Page:     2,
	}, nil)

	msg, err := messaging.Encode(ev)
	require.NoError(t, err)
	body := string(msg.Body)
	assert.Contains(t, body, `"priceMin":5`)
	assert.NotContains(t, body, "priceMax")
	assert.NotContains(t, body, "volumeFrom")
	assert.Contains(t, body, `"categories":["Garden","Tools"]`)
	assert.Contains(t, body, `"noi":3`)
	assert.Contains(t, body, `"sort":"extra.PRI:desc"`)
	assert.Contains(t, body, `"session_id":"abc"`)
	assert.Equal(t, "application/json", msg.ContentType)
}

func TestNopTracking(t *testing.T) {
	var tr Tracking = Nop{}
	tr.TrackSession("abc", httptest.NewRequest("GET", "/", nil))
	tr.TrackSearch("abc", Search{}, nil)
	assert.NoError(t, tr.Close())
}
