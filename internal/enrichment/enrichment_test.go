package enrichment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

func TestTranslate(t *testing.T) {
	known := []string{models.CategoryDining, models.CategoryGroceries, "Pets"}

	tests := []struct {
		name     string
		labels   []string
		expected string
		found    bool
	}{
		{"place type", []string{"point_of_interest", "restaurant"}, models.CategoryDining, true},
		{"known category name", []string{"pets"}, "Pets", true},
		{"first match wins", []string{"supermarket", "restaurant"}, models.CategoryGroceries, true},
		{"uncounted is ignored", []string{"Uncounted"}, "", false},
		{"no match", []string{"point_of_interest", "establishment"}, "", false},
		{"table category not in rules", []string{"parking"}, "", false},
		{"unknown table category is skipped", []string{"parking", "bakery"}, models.CategoryGroceries, true},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, found := Translate(tt.labels, known)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func newPlacesServer(t *testing.T, findBody, detailsBody string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/maps/api/place/findplacefromtext/json":
			assert.Equal(t, "textquery", r.URL.Query().Get("inputtype"))
			_, _ = w.Write([]byte(findBody))
		case "/maps/api/place/details/json":
			id := r.URL.Query().Get("placeid")
			if id == "" {
				id = r.URL.Query().Get("place_id")
			}
			assert.Equal(t, "abc", id)
			assert.Equal(t, "types", r.URL.Query().Get("fields"))
			_, _ = w.Write([]byte(detailsBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPlacesClient_Lookup(t *testing.T) {
	srv := newPlacesServer(t,
		`{"status":"OK","candidates":[{"place_id":"abc"}]}`,
		`{"status":"OK","result":{"types":["cafe","food"]}}`)

	client, err := NewPlacesClient("test-key", logging.NewMockLogger(), WithPlacesBaseURL(srv.URL))
	require.NoError(t, err)
	types, err := client.Lookup(context.Background(), "Blue Bottle Coffee")

	require.NoError(t, err)
	assert.Equal(t, []string{"cafe", "food"}, types)
	assert.Equal(t, ProviderPlaces, client.Name())
}

func TestPlacesClient_NoCandidate(t *testing.T) {
	srv := newPlacesServer(t, `{"status":"ZERO_RESULTS","candidates":[]}`, `{}`)

	client, err := NewPlacesClient("test-key", logging.NewMockLogger(), WithPlacesBaseURL(srv.URL))
	require.NoError(t, err)
	types, err := client.Lookup(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Nil(t, types)
}

func TestPlacesClient_Errors(t *testing.T) {
	newClient := func(t *testing.T, url string) *PlacesClient {
		t.Helper()
		client, err := NewPlacesClient("test-key", nil, WithPlacesBaseURL(url))
		require.NoError(t, err)
		return client
	}

	t.Run("denied status", func(t *testing.T) {
		srv := newPlacesServer(t, `{"status":"REQUEST_DENIED","error_message":"bad key"}`, `{}`)
		_, err := newClient(t, srv.URL).Lookup(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad key")
	})

	t.Run("details failure", func(t *testing.T) {
		srv := newPlacesServer(t,
			`{"status":"OK","candidates":[{"place_id":"abc"}]}`,
			`{"status":"OVER_QUERY_LIMIT","error_message":"quota"}`)
		_, err := newClient(t, srv.URL).Lookup(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "details")
	})

	t.Run("http failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		_, err := newClient(t, srv.URL).Lookup(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewPlacesClient("", nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := newPlacesServer(t, `{"status":"OK"}`, `{}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newClient(t, srv.URL).Lookup(ctx, "x")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if txt, ok := parts[0].(genai.Text); ok {
			f.prompt = string(txt)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(f.text)}},
		}},
	}, nil
}

func TestGeminiClient_Lookup(t *testing.T) {
	gen := &fakeGenerator{text: "Category: Dining\nDescription: a restaurant"}
	client := &GeminiClient{model: gen, categories: []string{"Dining", "Groceries"}, logger: logging.NewMockLogger()}

	labels, err := client.Lookup(context.Background(), "Trattoria Roma")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dining"}, labels)
	assert.Contains(t, gen.prompt, "Trattoria Roma")
	assert.Contains(t, gen.prompt, "Dining, Groceries")
	assert.NoError(t, client.Close())
}

func TestGeminiClient_LookupFailures(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		client := &GeminiClient{model: &fakeGenerator{err: errors.New("quota")}, logger: logging.NewMockLogger()}
		_, err := client.Lookup(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota")
	})

	t.Run("unstructured answer", func(t *testing.T) {
		client := &GeminiClient{model: &fakeGenerator{text: "I am not sure"}, logger: logging.NewMockLogger()}
		labels, err := client.Lookup(context.Background(), "x")
		require.NoError(t, err)
		assert.Nil(t, labels)
	})
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", nil, nil)
	assert.Error(t, err)
}

func TestExtractCategory(t *testing.T) {
	assert.Equal(t, "Travel", extractCategory("Category: [Travel]"))
	assert.Equal(t, "Bank Transfer", extractCategory("  Category: **Bank Transfer**"))
	assert.Equal(t, "", extractCategory("Travel"))
}
