package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/render"
	"github.com/Belphemur/ShowFinder/internal/services"
	"github.com/Belphemur/ShowFinder/internal/testutil"
)

type testEnv struct {
	upstream *testutil.FakeTVMaze
	server   *httptest.Server
	browser  *http.Client
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	upstream := testutil.NewFakeTVMaze(t)
	upstream.SetSearch("lost", testutil.GenerateSearchJSON([]testutil.ShowEntryOptions{
		{ID: 42, Name: "Lost", Summary: testutil.StringPtr("<p>Survivors.</p>")},
	}))
	upstream.SetEpisodes(42, testutil.GenerateEpisodesJSON([]testutil.EpisodeOptions{
		{ID: 1, Name: "Pilot", Season: 1, Number: testutil.IntPtr(1)},
	}))

	c := client.NewClient(&config.Config{APIURL: upstream.URL, ClientTimeout: "5s"})
	t.Cleanup(func() { _ = c.Close() })

	srv := NewServer(c, services.NewStore(c, nil, 16, time.Minute), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{upstream: upstream, server: ts, browser: &http.Client{Jar: jar}}
}

func (e *testEnv) page(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestServer_Health(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestServer_IndexStartsSession(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.Get(env.server.URL + "/")
	require.NoError(t, err)
	doc := env.page(t, resp)

	assert.Equal(t, 1, doc.Find(render.SearchFormSelector).Length())
	_, hidden := doc.Find(render.EpisodesAreaSelector).Attr("hidden")
	assert.True(t, hidden)

	u, _ := url.Parse(env.server.URL)
	cookies := env.browser.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
}

func TestServer_SearchThenEpisodes(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.PostForm(env.server.URL+"/search", url.Values{"term": {"lost"}})
	require.NoError(t, err)
	doc := env.page(t, resp)

	show := doc.Find(`.Show[data-show-id="42"]`)
	require.Equal(t, 1, show.Length())
	assert.Equal(t, "lost", doc.Find(render.SearchTermSelector).AttrOr("value", ""))

	action, _ := show.Find("form").Attr("action")
	resp, err = env.browser.PostForm(env.server.URL+action, nil)
	require.NoError(t, err)
	doc = env.page(t, resp)

	assert.Equal(t, 1, env.upstream.RequestCount("/shows/42/episodes"))
	_, hidden := doc.Find(render.EpisodesAreaSelector).Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, "Pilot, (season 1, number 1)", doc.Find(render.EpisodesListSelector+" li").Text())

	// Reloading replays nothing upstream.
	resp, err = env.browser.Get(env.server.URL + "/")
	require.NoError(t, err)
	doc = env.page(t, resp)
	assert.Equal(t, 1, doc.Find(".Show").Length())
	assert.Len(t, env.upstream.Requests(), 2)
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.PostForm(env.server.URL+"/search", url.Values{"term": {"lost"}})
	require.NoError(t, err)
	env.page(t, resp)

	jar, _ := cookiejar.New(nil)
	other := &http.Client{Jar: jar}
	resp, err = other.Get(env.server.URL + "/")
	require.NoError(t, err)
	doc := env.page(t, resp)

	assert.Equal(t, 0, doc.Find(".Show").Length())
}

func TestServer_SearchFailureShowsNotice(t *testing.T) {
	env := setupTestServer(t)
	env.upstream.SetStatus("/search/shows", http.StatusInternalServerError)

	resp, err := env.browser.PostForm(env.server.URL+"/search", url.Values{"term": {"lost"}})
	require.NoError(t, err)
	doc := env.page(t, resp)

	notice := doc.Find(render.NoticeSelector)
	_, hidden := notice.Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, "TVmaze could not be reached. Please try again.", notice.Text())
	assert.Equal(t, 0, doc.Find(".Show").Length())
}

func TestServer_RequestEpisodes_InvalidID(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.PostForm(env.server.URL+"/shows/abc/episodes", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_APISearchShows(t *testing.T) {
	env := setupTestServer(t)
	env.upstream.SetSearch("batman", testutil.BatmanSearchJSON())

	resp, err := env.browser.Get(env.server.URL + "/api/v1/search/shows?q=batman")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shows []models.Show
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&shows))
	require.Len(t, shows, 2)
	assert.Equal(t, 975, shows[0].ID)
	assert.Equal(t, models.DefaultImageURL, shows[1].Image)
}

func TestServer_APISearchShows_EmptyResult(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.browser.Get(env.server.URL + "/api/v1/search/shows?q=nothing")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body strings.Builder
	_, _ = io.Copy(&body, resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(body.String()))
}

func TestServer_APIGetEpisodes(t *testing.T) {
	env := setupTestServer(t)
	env.upstream.SetStatus("/shows/500/episodes", http.StatusInternalServerError)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantKind   string
	}{
		{"found", "/api/v1/shows/42/episodes", http.StatusOK, ""},
		{"unknown show", "/api/v1/shows/7/episodes", http.StatusNotFound, "not_found"},
		{"upstream failure", "/api/v1/shows/500/episodes", http.StatusBadGateway, "network_failure"},
		{"invalid id", "/api/v1/shows/x/episodes", http.StatusBadRequest, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.browser.Get(env.server.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusOK {
				var episodes []models.Episode
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&episodes))
				assert.Equal(t, []models.Episode{{ID: 1, Name: "Pilot", Season: 1, Number: 1}}, episodes)
				return
			}
			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}
