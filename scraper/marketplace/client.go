package marketplace

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vehicle-reconciler/config"
	"vehicle-reconciler/models"
	"vehicle-reconciler/transport"
	"vehicle-reconciler/utils"
)

var (
	// ErrBootstrap means session cookie acquisition failed; the lookup for
	// this record/provider is aborted.
	ErrBootstrap = errors.New("session bootstrap failed")

	// ErrBlocked means the anti-bot recovery sequence ran and the provider
	// still refused the request.
	ErrBlocked = errors.New("blocked by bot protection")
)

// Client turns a stock number (plus an optional source record for fallback
// context) into zero or more listings, tolerating the provider's anti-bot
// defenses. One Client per provider; both share the run's transport session.
type Client struct {
	provider  ProviderConfig
	transport *transport.Client
	pacer     *utils.Pacer
	cfg       *config.Config
	logger    *utils.Logger
}

// New creates a provider client.
func New(provider ProviderConfig, t *transport.Client, cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		provider:  provider,
		transport: t,
		pacer:     utils.NewPacer(logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// Name returns the provider label.
func (c *Client) Name() string { return c.provider.Name }

// Domain returns the provider's public site domain.
func (c *Client) Domain() string { return c.provider.Domain }

// Search runs the full lookup protocol for one stock number: session
// bootstrap, paced keyed query, fuzzy fallback on an empty result, and a
// single anti-bot recovery round on a blocked request. rec supplies the
// fallback-query context; when nil (ad-hoc lookup) no fallback is issued.
//
// The returned response is the raw provider payload so callers can both
// reconcile and persist it. An empty Data slice means not found.
func (c *Client) Search(stockNo, makeHint string, rec *models.SourceRecord) (*models.SearchResponse, error) {
	if err := c.bootstrap(); err != nil {
		return nil, err
	}

	c.pacer.Pause(c.cfg.PaceMinMs, c.cfg.PaceMaxMs)

	params := c.primaryParams(stockNo, makeHint)
	c.logger.Info("[%s] Primary search: %s", c.provider.Name, params.Encode())

	body, status, err := c.transport.Get(c.provider.SearchURL, params, c.provider.ExtraHeaders)
	if err != nil {
		return nil, fmt.Errorf("%s primary search: %w", c.provider.Name, err)
	}

	if status == http.StatusForbidden {
		body, status, err = c.recoverBlocked(params)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s primary search: status %d", c.provider.Name, status)
	}

	primary, err := decodeSearch(body)
	if err != nil {
		return nil, fmt.Errorf("%s primary search: %w", c.provider.Name, err)
	}
	if !primary.Empty() {
		c.logger.Info("[%s] Vehicle found with stock number search", c.provider.Name)
		return primary, nil
	}

	if rec == nil {
		return primary, nil
	}

	c.logger.Info("[%s] No results for stock number, trying fallback search...", c.provider.Name)
	return c.fallback(rec, primary)
}

// bootstrap visits the provider's landing page so the session cookie jar is
// populated before the API is touched.
func (c *Client) bootstrap() error {
	c.logger.Info("[%s] Getting initial cookies from %s", c.provider.Name, c.provider.HomeURL)

	_, status, err := c.transport.Get(c.provider.HomeURL, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", c.provider.Name, ErrBootstrap, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %w: status %d", c.provider.Name, ErrBootstrap, status)
	}
	return nil
}

// recoverBlocked runs the anti-bot recovery sequence after a 403: a long
// randomized wait, a rotated client identity, a fresh session, then exactly
// one retry of the primary query.
func (c *Client) recoverBlocked(params url.Values) ([]byte, int, error) {
	c.logger.Warn("[%s] Bot protection detected (403). Retrying with additional measures...", c.provider.Name)

	c.pacer.Pause(c.cfg.BlockWaitMinMs, c.cfg.BlockWaitMaxMs)
	c.transport.RotateUserAgent(c.provider.AltUserAgent)

	// Best-effort re-bootstrap; the retry below decides the outcome.
	if err := c.bootstrap(); err != nil {
		c.logger.Warn("[%s] Re-bootstrap failed: %v", c.provider.Name, err)
	}

	body, status, err := c.transport.Get(c.provider.SearchURL, params, c.provider.ExtraHeaders)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", c.provider.Name, ErrBlocked, err)
	}
	if status != http.StatusOK {
		return nil, 0, fmt.Errorf("%s: %w: retry status %d", c.provider.Name, ErrBlocked, status)
	}

	c.logger.Info("[%s] Retry successful", c.provider.Name)
	return body, status, nil
}

// fallback reissues the search with fuzzy parameters derived from the
// source record. A failed or empty fallback returns the (empty) primary
// response so the caller reports Not Found rather than an error.
func (c *Client) fallback(rec *models.SourceRecord, primary *models.SearchResponse) (*models.SearchResponse, error) {
	c.pacer.Pause(c.cfg.StepDelayMinMs, c.cfg.StepDelayMaxMs)

	params := c.fallbackParams(rec)
	c.logger.Info("[%s] Fallback search: %s", c.provider.Name, params.Encode())

	body, status, err := c.transport.Get(c.provider.SearchURL, params, c.provider.ExtraHeaders)
	if err != nil || status != http.StatusOK {
		c.logger.Error("[%s] Fallback search failed (status %d): %v", c.provider.Name, status, err)
		return primary, nil
	}

	result, err := decodeSearch(body)
	if err != nil {
		c.logger.Error("[%s] Fallback search: %v", c.provider.Name, err)
		return primary, nil
	}
	if result.Empty() {
		c.logger.Info("[%s] No results found even with fallback search", c.provider.Name)
		return primary, nil
	}

	c.logger.Info("[%s] Vehicle found with fallback search parameters", c.provider.Name)
	return result, nil
}

func (c *Client) primaryParams(stockNo, makeHint string) url.Values {
	params := url.Values{}
	params.Set("stock_no", stockNo)
	params.Set("dealer_id", c.cfg.DealerID)

	if c.provider.Source != "" {
		params.Set("source", c.provider.Source)
	}
	if c.provider.DecoratePrimary {
		decorate(params)
	}
	if c.provider.MakeHintPrimary && makeHint != "" {
		params.Set("make", makeHint)
	}
	return params
}

// fallbackParams builds the fuzzy query: exact make/model/year plus price
// and odometer windows of source value ±100 units.
func (c *Client) fallbackParams(rec *models.SourceRecord) url.Values {
	params := url.Values{}
	params.Set("dealer_id", c.cfg.DealerID)
	decorate(params)

	if c.provider.Source != "" {
		params.Set("source", c.provider.Source)
	}
	if v := strings.TrimSpace(rec.Make); v != "" {
		params.Set("make", v)
	}
	if v := strings.TrimSpace(rec.Model); v != "" {
		params.Set("model", v)
	}
	if v := strings.TrimSpace(rec.Year); v != "" {
		params.Set("manu_year", v)
	}

	if rec.Price != "" {
		if price, err := parseUnits(rec.Price); err == nil {
			params.Set("priceFrom", strconv.Itoa(price-100))
			params.Set("priceTo", strconv.Itoa(price+100))
		} else {
			c.logger.Warn("[%s] Could not parse price: %q", c.provider.Name, rec.Price)
		}
	}
	if rec.KM != "" {
		if km, err := parseUnits(rec.KM); err == nil {
			params.Set("odometerFrom", strconv.Itoa(km-100))
			params.Set("odometerTo", strconv.Itoa(km+100))
		} else {
			c.logger.Warn("[%s] Could not parse odometer: %q", c.provider.Name, rec.KM)
		}
	}
	return params
}

// decorate adds the browse-style query parameters the backend expects on
// fuzzy searches.
func decorate(params url.Values) {
	params.Set("ipLookup", "1")
	params.Set("sorting_variation", "smart_sort_3")
	params.Set("paginate", "26")
}

func decodeSearch(body []byte) (*models.SearchResponse, error) {
	var resp models.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &resp, nil
}

// parseUnits parses an integer amount, tolerating thousands separators.
func parseUnits(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
