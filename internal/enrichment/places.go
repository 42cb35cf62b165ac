package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"fjacquet/statement-csv/internal/logging"
)

// PlacesClient resolves a description to Google place types in two calls:
// find-place for a place id, then place details for its types.
type PlacesClient struct {
	client *maps.Client
	logger logging.Logger
}

// PlacesOption customizes the underlying maps client.
type PlacesOption = maps.ClientOption

// WithPlacesBaseURL points the client at another endpoint root.
func WithPlacesBaseURL(base string) PlacesOption {
	return maps.WithBaseURL(base)
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) PlacesOption {
	return maps.WithHTTPClient(hc)
}

// NewPlacesClient creates a Places client for apiKey.
func NewPlacesClient(apiKey string, logger logging.Logger, opts ...PlacesOption) (*PlacesClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places API key not configured")
	}

	all := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	}, opts...)
	client, err := maps.NewClient(all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}
	return &PlacesClient{client: client, logger: logging.OrDefault(logger)}, nil
}

// Name returns the provider name.
func (c *PlacesClient) Name() string {
	return ProviderPlaces
}

// Lookup returns the place types of the best match for description.
// ZERO_RESULTS is an empty answer, not a failure.
func (c *PlacesClient) Lookup(ctx context.Context, description string) ([]string, error) {
	found, err := c.client.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     description,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields:    []maps.PlaceSearchFieldMask{maps.PlaceSearchFieldMaskPlaceID},
	})
	if err != nil {
		return nil, fmt.Errorf("places find request failed: %w", err)
	}
	if len(found.Candidates) == 0 || found.Candidates[0].PlaceID == "" {
		c.logger.Debug("No place found",
			logging.Field{Key: logging.FieldDescription, Value: description})
		return nil, nil
	}

	details, err := c.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: found.Candidates[0].PlaceID,
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskTypes},
	})
	if err != nil {
		return nil, fmt.Errorf("places details request failed: %w", err)
	}

	c.logger.Debug("Place types resolved",
		logging.Field{Key: logging.FieldDescription, Value: description},
		logging.Field{Key: logging.FieldCount, Value: len(details.Types)})
	return details.Types, nil
}
