package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/matchforecast/internal/model"
	httpClient "github.com/Alias1177/matchforecast/internal/platform/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Odds API v4 endpoint
const DefaultBaseURL = "https://api.the-odds-api.com/v4"

// Client is the Odds API client used for results and upcoming events
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Odds API client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
	InitialInterval time.Duration
}

// NewClient creates a new Odds API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
		InitialInterval: options.InitialInterval,
	}

	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "oddsapi_client").Logger(),
	}
}

// GetScores fetches recent and completed games for a sport, oldest first
func (c *Client) GetScores(ctx context.Context, sport string, daysFrom int) ([]model.Game, error) {
	params := url.Values{}
	if daysFrom > 0 {
		params.Set("daysFrom", strconv.Itoa(daysFrom))
	}

	var games []model.Game
	if err := c.getJSON(ctx, fmt.Sprintf("/sports/%s/scores/", url.PathEscape(sport)), params, &games); err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].CommenceTime.Before(games[j].CommenceTime)
	})

	c.logger.Debug().Str("sport", sport).Int("count", len(games)).Msg("Fetched scores")
	return games, nil
}

// GetEvents fetches upcoming events for a sport
func (c *Client) GetEvents(ctx context.Context, sport string) ([]model.Event, error) {
	var events []model.Event
	if err := c.getJSON(ctx, fmt.Sprintf("/sports/%s/events", url.PathEscape(sport)), url.Values{}, &events); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("sport", sport).Int("count", len(events)).Msg("Fetched events")
	return events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	params.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().Str("path", path).Msg("Requesting odds feed")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Error parsing JSON")
		return fmt.Errorf("parsing JSON: %w", err)
	}

	return nil
}
