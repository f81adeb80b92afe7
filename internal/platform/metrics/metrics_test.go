package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/candidat/places/{slotID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/candidat/places/abc", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/candidat/places/{slotID}", "GET", "409")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", "GET", "404")), 0)
}

func TestObserveQueueAndScrape(t *testing.T) {
	m := New()
	m.ObserveQueue("notification", 7, 3)
	m.BuildInfo.Set(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `candilib_queue_depth{queue="notification"} 7`))
	assert.True(t, strings.Contains(body, `candilib_queue_dropped_total{queue="notification"} 3`))
	assert.True(t, strings.Contains(body, "candilib_up 1"))
}
