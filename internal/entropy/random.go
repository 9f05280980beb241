package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	randomOrgURL  = "https://api.random.org/json-rpc/4/invoke"
	poolBatch     = 100
	poolLowWater  = 10
	refillBackoff = time.Minute
)

// Client is a Source backed by random.org with a local pool. It falls back
// to crypto/rand whenever the pool cannot be refilled.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client

	mu        sync.Mutex
	pool      []float64
	nextFetch time.Time // no refill attempts before this
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: randomOrgURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Float64 returns a float in [0, 1) from the pool, refilling when low.
func (c *Client) Float64() float64 {
	if !c.Enabled() {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < poolLowWater && time.Now().After(c.nextFetch) {
		if err := c.refill(); err != nil {
			slog.Warn("random.org refill failed, using crypto/rand", "retry_in", refillBackoff, "error", err)
			c.nextFetch = time.Now().Add(refillBackoff)
		}
	}
	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

// refill fetches one batch of decimal fractions into the pool.
func (c *Client) refill() error {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             poolBatch,
			"decimalPlaces": 6,
		},
		"id": 1,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("api: %s", result.Error.Message)
	}

	n := 0
	for _, v := range result.Result.Random.Data {
		if v >= 0 && v < 1 {
			c.pool = append(c.pool, v)
			n++
		}
	}
	slog.Debug("random.org pool refilled", "count", n)
	return nil
}

// cryptoRandFloat generates a float64 in [0, 1) using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	// 53 bits for a uniform float64.
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// New picks the session source: seeded when seed is non-zero, random.org
// when a key is configured, crypto/rand otherwise.
func New(seed int64, randomOrgKey string) Source {
	if seed != 0 {
		return NewSeeded(seed)
	}
	if c := NewClient(randomOrgKey); c != nil {
		return c
	}
	return Crypto{}
}
