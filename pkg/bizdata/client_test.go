package bizdata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmail/contact-cli/internal/model"
)

func TestFetchBusinesses_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "coffee", q.Get("query"))
		assert.Equal(t, "30.27", q.Get("lat"))
		assert.Equal(t, "-97.74", q.Get("lng"))
		assert.Equal(t, "13", q.Get("zoom"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "us", q.Get("region"))
		assert.Equal(t, "true", q.Get("extract_emails_and_contacts"))
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data": [
			{"name": "Cafe", "phone_number": "555", "website": "cafe.com", "address": "1 Main St",
			 "emails_and_contacts": {"emails": ["hi@cafe.com"]}},
			{"name": "Roastery", "phone_number": "556", "website": "roast.com", "address": "2 Main St",
			 "emails_and_contacts": {"emails": []}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", "example.test", WithBaseURL(srv.URL), WithRateLimit(1000))
	records, err := c.FetchBusinesses(context.Background(), "coffee", "30.27", "-97.74")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Cafe", records[0].Name)
	assert.Equal(t, "hi@cafe.com", records[0].FirstEmail())
	assert.Equal(t, model.NoEmailSentinel, records[1].FirstEmail())
}

func TestFetchBusinesses_NonArrayDataIsInvalidShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"object data", `{"data": {"unexpected": true}}`},
		{"string data", `{"data": "oops"}`},
		{"null data", `{"data": null}`},
		{"missing data", `{"status": "OK"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient("k", "example.test", WithBaseURL(srv.URL), WithRateLimit(1000))
			_, err := c.FetchBusinesses(context.Background(), "coffee", "1", "2")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestFetchBusinesses_ServerErrorIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k", "example.test", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.FetchBusinesses(context.Background(), "coffee", "1", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchBusinesses_EmptyArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data": []}`)
	}))
	defer srv.Close()

	c := NewClient("k", "example.test", WithBaseURL(srv.URL), WithRateLimit(1000))
	records, err := c.FetchBusinesses(context.Background(), "coffee", "1", "2")
	require.NoError(t, err)
	assert.Empty(t, records)
}
