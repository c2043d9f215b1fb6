package dcfsheet

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	ignore []string // query parameters left out of the key
	now    func() time.Time
}

// NewDailyCache returns a RoundTripper caching successful GET responses on
// disk, in dir (os.TempDir() if empty). Entries expire every day.
//
// Query parameters listed in ignore are not part of the cache key, which is
// needed for session tokens.
func NewDailyCache(base http.RoundTripper, dir string, ignore ...string) http.RoundTripper {
	if dir == "" {
		dir = os.TempDir()
	}
	return &diskCache{base: base, dir: dir, ignore: ignore, now: time.Now}
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the day is part of the key, so the cache expires every day.
	u := *req.URL
	q := u.Query()
	for _, p := range c.ignore {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	key := fmt.Sprintf("%s %s %s", c.now().Format(time.DateOnly), req.Method, u.String())
	key = fmt.Sprintf("dcfsheet-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk. The response body is replaced by an
// in-memory copy so the caller can still read it.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}

// rateLimited waits for the limiter before each request.
type rateLimited struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimited returns a RoundTripper that waits for limiter before
// sending each request.
func NewRateLimited(base http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	return &rateLimited{base: base, limiter: limiter}
}

func (t *rateLimited) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into
// data. Numbers are decoded as json.Number when data is an interface value.
func GetJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read http body: %w", err)
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return dec.Decode(data)
}
