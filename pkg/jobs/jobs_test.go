package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/remote"
)

const postingsJSON = `{
	"totalFound": 42,
	"content": [
		{
			"id": "743999",
			"name": "Senior Software Engineer (Kotlin)",
			"location": {"city": "Warszawa"},
			"releasedDate": "2024-03-01T10:00:00.000Z",
			"customField": [
				{"fieldLabel": "Kraków", "valueLabel": "Tak"},
				{"fieldLabel": "Poznań", "valueLabel": "Nie"},
				{"fieldLabel": "Warszawa", "valueLabel": "Tak"},
				{"fieldLabel": "Department", "valueLabel": "Tak"},
				{"fieldLabel": "Toruń", "valueLabel": "Tak"}
			]
		},
		{
			"id": "744000",
			"name": "Data Analyst",
			"location": {"city": "Berlin"},
			"customField": []
		},
		{
			"id": "",
			"name": "broken"
		}
	]
}`

func testSource(url string) config.JobsSource {
	return config.JobsSource{
		URL:        url,
		LinkBase:   "https://jobs.example.com/Allegro/",
		TrackingID: "trid-1",
		FlagValue:  "Tak",
	}
}

func TestService_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(postingsJSON))
	}))
	defer server.Close()

	svc := NewService(remote.New(remote.Options{Timeout: 5 * time.Second}), testSource(server.URL), config.DefaultCities())
	listing, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, listing.Total)
	require.Len(t, listing.Jobs, 2)

	job := listing.Jobs[0]
	assert.Equal(t, "743999", job.ID)
	assert.Equal(t, "Senior Software Engineer (Kotlin)", job.Name)
	assert.Equal(t, "Warsaw", job.City)
	assert.Equal(t, []string{"Krakow", "Torun"}, job.AdditionalCities)
	assert.Equal(t, "https://jobs.example.com/Allegro/743999-senior-software-engineer-kotlin?trid=trid-1", job.URL)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), job.ReleasedAt.UTC())

	other := listing.Jobs[1]
	assert.Equal(t, "Berlin", other.City, "unknown city passes through")
	assert.NotNil(t, other.AdditionalCities)
	assert.Empty(t, other.AdditionalCities)
	assert.True(t, other.ReleasedAt.IsZero())
}

func TestService_Fetch_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		svc := NewService(remote.New(remote.Options{Timeout: 5 * time.Second}), testSource(server.URL), nil)
		_, err := svc.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch job postings")
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content": "oops"`))
		}))
		defer server.Close()

		svc := NewService(remote.New(remote.Options{Timeout: 5 * time.Second}), testSource(server.URL), nil)
		_, err := svc.Fetch(context.Background())
		require.Error(t, err)
	})
}

func TestService_link(t *testing.T) {
	svc := NewService(nil, config.JobsSource{LinkBase: "https://jobs.example.com/Allegro"}, nil)
	assert.Equal(t, "https://jobs.example.com/Allegro/1-inzynier-qa", svc.link("1", "Inżynier QA"))

	svc = NewService(nil, config.JobsSource{}, nil)
	assert.Empty(t, svc.link("1", "Engineer"))
}
