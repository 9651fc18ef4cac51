package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/menu"
)

const unknownCodeDoc = `<jidelnicky><den datum="23-06-2025">` +
	`<jidlo nazev="x" druh="y" alergeny="07,99"/></den></jidelnicky>`

// newFeed serves a different document per cafeteria id.
func newFeed(t *testing.T) *httptest.Server {
	t.Helper()

	sample, err := os.ReadFile("../menu/testdata/sample_menu.xml")
	require.NoError(t, err)

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("zarizeni") {
		case "1":
			_, _ = w.Write(sample)
		case "2":
			_, _ = w.Write([]byte("<jidelnicky></jidelnicky>"))
		case "4":
			_, _ = w.Write([]byte(unknownCodeDoc))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(feed.Close)

	return feed
}

func newTestServer(t *testing.T, origins ...string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	feed := newFeed(t)

	return New(Config{
		CORSOrigins: origins,
		Dictionary:  allergen.Default(),
		Parser: []menu.Option{
			menu.WithHTTPClient(feed.Client()),
			menu.WithURLTemplate(feed.URL + "/XML?zarizeni={id}"),
		},
	})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(t), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]string](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "jidelnicek", body["service"])

	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDReused(t *testing.T) {
	s := newTestServer(t)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(requestIDHeader))
}

func TestAllergens(t *testing.T) {
	w := get(t, newTestServer(t), "/allergens")
	require.Equal(t, http.StatusOK, w.Code)

	entries := decode[[]allergen.Entry](t, w)
	assert.Len(t, entries, allergen.Default().Len())
	assert.Equal(t, "01", entries[0].Code)
}

func TestWholeMenu(t *testing.T) {
	w := get(t, newTestServer(t), "/cafeterias/1/menu")
	require.Equal(t, http.StatusOK, w.Code)

	m := decode[menu.Menu](t, w)
	assert.Equal(t, 1, m.CafeteriaID)
	require.Len(t, m.Days, 5)
	assert.Equal(t, "23-06-2025", m.Days[0].Date)
	assert.Equal(t, []string{"01a", "07", "09"}, m.Days[0].Meals[0].Allergens)
}

func TestWholeMenuNamesAndFilter(t *testing.T) {
	w := get(t, newTestServer(t), `/cafeterias/1/menu?names=true&where=course+%3D%3D+%22pol%C3%A9vka%22`)
	require.Equal(t, http.StatusOK, w.Code)

	m := decode[menu.Menu](t, w)
	require.Len(t, m.Days, 5)

	for _, d := range m.Days {
		require.Len(t, d.Meals, 1)
		assert.Equal(t, "polévka", d.Meals[0].Type)
	}

	assert.Contains(t, m.Days[0].Meals[0].Allergens[0], "pšenice")
}

func TestClosestDay(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/cafeterias/1/closest")
	require.Equal(t, http.StatusOK, w.Code)

	day := decode[menu.Day](t, w)
	assert.Equal(t, "23-06-2025", day.Date)
	assert.Len(t, day.Meals, 4)

	w = get(t, s, "/cafeterias/2/closest")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no day found", decode[map[string]string](t, w)["kind"])
}

func TestDateMenu(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/cafeterias/1/days/26-06-2025")
	require.Equal(t, http.StatusOK, w.Code)

	day := decode[menu.Day](t, w)
	assert.Equal(t, "26-06-2025", day.Date)
	assert.Equal(t, "rybí polévka", day.Meals[0].Name)

	w = get(t, s, "/cafeterias/1/days/20-06-2025")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not listed", decode[map[string]string](t, w)["kind"])
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		kind   string
	}{
		{"bad id", "/cafeterias/abc/menu", http.StatusBadRequest, "cafeteria id"},
		{"zero id", "/cafeterias/0/menu", http.StatusBadRequest, "cafeteria id"},
		{"bad names", "/cafeterias/1/menu?names=maybe", http.StatusBadRequest, "query"},
		{"bad filter", "/cafeterias/1/menu?where=%3D%3D%3D", http.StatusBadRequest, "filter"},
		// The date is rejected before the failing feed is contacted.
		{"bad date", "/cafeterias/3/days/2025-06-20", http.StatusBadRequest, "invalid date format"},
		{"feed down", "/cafeterias/3/menu", http.StatusBadGateway, "fetch"},
		{"unknown code", "/cafeterias/4/menu?names=1", http.StatusUnprocessableEntity, "unknown allergen code"},
	}

	s := newTestServer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, tt.status, w.Code)

			body := decode[map[string]string](t, w)
			assert.Equal(t, tt.kind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, "https://example.com")

	// The origin must differ from the request host, or cors treats the
	// request as same-origin and adds no headers.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "api.local"
	req.Header.Set("Origin", "https://example.com")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
