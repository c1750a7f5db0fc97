// Package proxy rotates outbound requests through residential proxy
// credentials fetched from the Webshare list API. Credentials are cached
// for a fixed TTL; any failure along the way degrades to a direct
// connection, never an error.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/farewatch/fare-engine/src/common/config"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const credentialsKey = "webshare:proxies"

type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"proxy_address"`
	Port     int    `json:"port"`
}

type listResponse struct {
	Results []Credential `json:"results"`
}

// TransportSource yields a per-request transport, or nil for a direct
// connection. Provider clients depend on this interface so tests can run
// without the Webshare API.
type TransportSource interface {
	Transport(ctx context.Context) http.RoundTripper
}

// Direct is a TransportSource that never proxies.
type Direct struct{}

func (Direct) Transport(context.Context) http.RoundTripper { return nil }

// Source caches Webshare credentials in an injected TTL cache and hands
// out proxied transports with a randomly picked credential.
type Source struct {
	apiKey  string
	listURL string
	cache   *cache.Cache
	client  *http.Client
	logger  *zap.SugaredLogger
	rng     *rand.Rand
}

func NewSource(cfg config.ProxyConfig, logger *zap.SugaredLogger) *Source {
	return &Source{
		apiKey:  cfg.APIKey,
		listURL: cfg.ListURL,
		cache:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Transport returns a proxied transport, or nil when no API key is set,
// the list is empty, or the fetch failed. Callers treat nil as "go
// direct".
func (s *Source) Transport(ctx context.Context) http.RoundTripper {
	if s.apiKey == "" {
		return nil
	}

	credentials, err := s.Credentials(ctx)
	if err != nil {
		s.logger.Warnw("proxy list fetch failed, using direct connection", "error", err)
		return nil
	}
	if len(credentials) == 0 {
		s.logger.Warn("no proxies available, using direct connection")
		return nil
	}

	credential := credentials[s.rng.Intn(len(credentials))]
	proxyURL := &url.URL{
		Scheme: "http",
		User:   url.UserPassword(credential.Username, credential.Password),
		Host:   fmt.Sprintf("%s:%d", credential.Address, credential.Port),
	}
	return &http.Transport{Proxy: http.ProxyURL(proxyURL)}
}

// Credentials returns the cached proxy list, refetching it on first use
// or after the TTL expired.
func (s *Source) Credentials(ctx context.Context) ([]Credential, error) {
	if cached, found := s.cache.Get(credentialsKey); found {
		return cached.([]Credential), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webshare API error: %d", resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	s.cache.SetDefault(credentialsKey, list.Results)
	s.logger.Infow("fetched proxy credentials", "count", len(list.Results))
	return list.Results, nil
}
