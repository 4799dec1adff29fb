// tmdb_test.go — Unit tests for the enrichment client against an httptest
// stand-in for the TMDB API.
package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kylemdonovan/moviebot/internal/catalog"
	"github.com/kylemdonovan/moviebot/internal/logger"
)

const searchBody = `{
	"results": [
		{"id": 27205, "title": "Inception", "release_date": "2010-07-15", "vote_average": 8.369},
		{"id": 99999, "title": "Inception: The Cobol Job", "release_date": "2010-12-07", "vote_average": 7.0}
	]
}`

const providersBody = `{
	"results": {
		"US": {"flatrate": [{"provider_name": "Netflix"}, {"provider_name": "Peacock"}]},
		"GB": {"flatrate": [{"provider_name": "Sky Go"}]}
	}
}`

// newStub serves canned bodies per path prefix; "" means 500.
func newStub(t *testing.T, search, providers string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/movie":
			if search == "" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(search))
		case r.URL.Path == "/movie/27205/watch/providers":
			if providers == "" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(providers))
		default:
			t.Errorf("unexpected request path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLookup_FoundUsesFirstResult(t *testing.T) {
	srv := newStub(t, searchBody, providersBody)
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")

	if enr.Outcome != catalog.EnrichmentFound {
		t.Fatalf("outcome = %v, want Found", enr.Outcome)
	}
	if enr.Title != "Inception" {
		t.Errorf("title = %q (first result must win)", enr.Title)
	}
	if enr.ReleaseYear != "2010" {
		t.Errorf("release year = %q, want 2010", enr.ReleaseYear)
	}
	if enr.Rating == nil || *enr.Rating != 8.369 {
		t.Errorf("rating = %v, want 8.369", enr.Rating)
	}
	want := []string{"Netflix", "Peacock"}
	if len(enr.Services) != len(want) {
		t.Fatalf("services = %v, want %v", enr.Services, want)
	}
	for i, s := range want {
		if enr.Services[i] != s {
			t.Errorf("services[%d] = %q, want %q", i, enr.Services[i], s)
		}
	}
}

func TestLookup_NotFoundOnEmptyResults(t *testing.T) {
	srv := newStub(t, `{"results": []}`, providersBody)
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "no such film")
	if enr.Outcome != catalog.EnrichmentNotFound {
		t.Errorf("outcome = %v, want NotFound", enr.Outcome)
	}
}

func TestLookup_UnavailableOnServerError(t *testing.T) {
	srv := newStub(t, "", providersBody)
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentUnavailable {
		t.Errorf("outcome = %v, want Unavailable", enr.Outcome)
	}
}

func TestLookup_UnavailableOnNetworkError(t *testing.T) {
	srv := newStub(t, searchBody, providersBody)
	srv.Close() // connection refused from here on

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentUnavailable {
		t.Errorf("outcome = %v, want Unavailable", enr.Outcome)
	}
}

func TestLookup_UnavailableWithoutAPIKey(t *testing.T) {
	c := NewClient("", logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentUnavailable {
		t.Errorf("outcome = %v, want Unavailable", enr.Outcome)
	}
}

func TestLookup_ProviderFailureKeepsFound(t *testing.T) {
	// The second round trip failing must not fail the enrichment.
	srv := newStub(t, searchBody, "")
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentFound {
		t.Fatalf("outcome = %v, want Found despite provider failure", enr.Outcome)
	}
	if len(enr.Services) != 0 {
		t.Errorf("services = %v, want empty", enr.Services)
	}
}

func TestLookup_MissingRegionYieldsNoServices(t *testing.T) {
	srv := newStub(t, searchBody, `{"results": {"GB": {"flatrate": [{"provider_name": "Sky Go"}]}}}`)
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentFound {
		t.Fatalf("outcome = %v, want Found", enr.Outcome)
	}
	if len(enr.Services) != 0 {
		t.Errorf("services = %v, want empty when US region absent", enr.Services)
	}
}

func TestLookup_MissingFlatrateYieldsNoServices(t *testing.T) {
	srv := newStub(t, searchBody, `{"results": {"US": {}}}`)
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, logger.Discard())
	enr := c.Lookup(context.Background(), "Inception")
	if enr.Outcome != catalog.EnrichmentFound || len(enr.Services) != 0 {
		t.Errorf("got outcome=%v services=%v, want Found with no services", enr.Outcome, enr.Services)
	}
}

func TestReleaseYear(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2010-07-15", "2010"},
		{"1999", "1999"},
		{"", ""},
		{"19", ""},
	}
	for _, tc := range cases {
		if got := releaseYear(tc.in); got != tc.want {
			t.Errorf("releaseYear(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
