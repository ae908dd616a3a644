package archetypes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pathbinder/archetype-bot/internal/domain/archetype"
	"github.com/pathbinder/archetype-bot/internal/errors"
)

// Config holds configuration for the HTTP content client
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an HTTP-backed content client
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// archetypeResponse mirrors the content API's archetype resource.
type archetypeResponse struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// featureResponse mirrors the content API's feature resource.
type featureResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *client) ListArchetypes(ctx context.Context, class string) ([]*archetype.RawArchetype, error) {
	endpoint := c.baseURL + "/archetypes"
	if class != "" {
		endpoint += "?class=" + url.QueryEscape(class)
	}

	var response []archetypeResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	result := make([]*archetype.RawArchetype, 0, len(response))
	for _, item := range response {
		result = append(result, toRawArchetype(item))
	}
	return result, nil
}

func (c *client) GetArchetype(ctx context.Context, slug string) (*archetype.RawArchetype, error) {
	var response archetypeResponse
	if err := c.getJSON(ctx, c.baseURL+"/archetypes/"+url.PathEscape(slug), &response); err != nil {
		return nil, err
	}
	return toRawArchetype(response), nil
}

func (c *client) ListFeatures(ctx context.Context, slug string) ([]*archetype.RawFeature, error) {
	var response []featureResponse
	if err := c.getJSON(ctx, c.baseURL+"/archetypes/"+url.PathEscape(slug)+"/features", &response); err != nil {
		return nil, err
	}

	result := make([]*archetype.RawFeature, 0, len(response))
	for _, item := range response {
		result = append(result, &archetype.RawFeature{
			Name:        item.Name,
			Description: item.Description,
		})
	}
	return result, nil
}

func (c *client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "content source unreachable")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFoundf("content source has no resource at %s", endpoint)
	case resp.StatusCode != http.StatusOK:
		return errors.Newf(errors.CodeUnavailable, "content source returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "content source returned malformed JSON")
	}
	return nil
}

func toRawArchetype(item archetypeResponse) *archetype.RawArchetype {
	slug := item.Slug
	if slug == "" {
		slug = archetype.Slugify(item.Name)
	}
	return &archetype.RawArchetype{
		Slug:  slug,
		Name:  item.Name,
		Class: item.Class,
	}
}
