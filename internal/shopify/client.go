// Package shopify is the gateway to the remote Storefront API: it issues
// authenticated GraphQL requests, classifies failures, and normalizes the
// paged wire payloads into flat domain entities.
package shopify

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/MohannadDev/protoshop-dev/internal/cache"
)

// graphqlAPIPath is the Storefront API endpoint path, pinned to one API
// version so payload shapes stay stable.
const graphqlAPIPath = "/api/2023-01/graphql.json"

// Cache tags for the logical resource categories reads depend on.
const (
	TagProducts    = "products"
	TagCollections = "collections"
	TagCart        = "cart"
)

// ErrMissingCredentials is returned at construction when the store domain or
// access token is absent. This is fatal at startup, not recoverable
// per-request.
var ErrMissingCredentials = errors.New("missing storefront credentials")

// Config holds the gateway configuration.
type Config struct {
	// StoreDomain is the shop domain, with or without the https:// prefix.
	StoreDomain string
	// AccessToken is the Storefront API access token.
	AccessToken string
	// Cache stores tagged read results. Required.
	Cache *cache.Store
	// HTTPClient overrides the default instrumented client, mainly in tests.
	HTTPClient *http.Client
}

// Client issues authenticated requests to the Storefront API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	cache    *cache.Store
}

// StoreURL returns the canonical https base URL for a store domain,
// accepting input with or without the scheme and with or without a trailing
// slash.
func StoreURL(domain string) string {
	if !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimSuffix(domain, "/")
}

// NewClient validates the credentials and builds a Client. The outbound
// transport is instrumented with otelhttp.
func NewClient(cfg Config) (*Client, error) {
	if cfg.StoreDomain == "" || cfg.AccessToken == "" {
		return nil, ErrMissingCredentials
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		endpoint: StoreURL(cfg.StoreDomain) + graphqlAPIPath,
		token:    cfg.AccessToken,
		http:     httpClient,
		cache:    cfg.Cache,
	}, nil
}

// gqlRequest describes one GraphQL exchange.
type gqlRequest struct {
	op        string
	query     string
	variables map[string]any
	// tags associates a cacheable read with invalidation tags. Empty tags or
	// noCache bypass the cache entirely (mutations, session-scoped reads).
	tags    []string
	noCache bool
}

type gqlErrorEntry struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlErrorEntry `json:"errors"`
}

// send performs the exchange and decodes the response data into out. Reads
// carrying tags are served from the tag cache when fresh; concurrent
// identical reads collapse into a single upstream call.
func (c *Client) send(ctx context.Context, req gqlRequest, out any) error {
	if req.noCache || len(req.tags) == 0 || c.cache == nil {
		data, err := c.fetch(ctx, req)
		if err != nil {
			return err
		}
		return decodePayload(req.op, data, out)
	}

	key := cacheKey(req)
	v, err := c.cache.Do(ctx, key, req.tags, func(ctx context.Context) (any, error) {
		data, err := c.fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	// Decode per caller so every call returns fresh, independently owned
	// entities even on a cache hit.
	return decodePayload(req.op, v.(json.RawMessage), out)
}

// fetch performs one POST to the GraphQL endpoint and classifies failures.
func (c *Client) fetch(ctx context.Context, req gqlRequest) (json.RawMessage, error) {
	body, err := encodeRequestBody(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(req.op, err.Error(), 0)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(req.op, err.Error(), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(req.op, err.Error(), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, transportError(req.op, "unexpected status "+resp.Status, resp.StatusCode)
	}

	var envelope gqlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, protocolError(req.op, "malformed response body", resp.StatusCode)
	}
	if len(envelope.Errors) > 0 {
		zctx.From(ctx).Error("Storefront API error",
			zap.String("operation", req.op),
			zap.String("message", envelope.Errors[0].Message),
		)
		return nil, protocolError(req.op, envelope.Errors[0].Message, resp.StatusCode)
	}

	return envelope.Data, nil
}

// encodeRequestBody builds the {"query":..., "variables":...} body with jx.
func encodeRequestBody(req gqlRequest) ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("query")
	e.Str(req.query)
	if len(req.variables) > 0 {
		vars, err := json.Marshal(req.variables)
		if err != nil {
			return nil, err
		}
		e.FieldStart("variables")
		e.Raw(vars)
	}
	e.ObjEnd()
	return e.Bytes(), nil
}

// cacheKey derives a stable key from the operation and its variables.
func cacheKey(req gqlRequest) string {
	h := sha256.New()
	h.Write([]byte(req.query))
	if len(req.variables) > 0 {
		// Map iteration order does not matter here: json.Marshal sorts keys.
		vars, _ := json.Marshal(req.variables)
		h.Write(vars)
	}
	return req.op + ":" + hex.EncodeToString(h.Sum(nil))
}

func decodePayload(op string, data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return protocolError(op, "unexpected payload shape: "+err.Error(), http.StatusOK)
	}
	return nil
}
