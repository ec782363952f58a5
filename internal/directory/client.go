package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
)

// Client fetches the published pool directory over HTTP
type Client struct {
	URL    string
	HTTP   *http.Client
	Logger *logrus.Logger
}

func NewClient(url string, timeout time.Duration, logger *logrus.Logger) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		url = constants.DefaultDirectoryURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		URL:    url,
		HTTP:   &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if len(b) > 256 {
		b = b[:256]
	}
	if b == "" {
		return fmt.Sprintf("pool directory http %d", e.StatusCode)
	}
	return fmt.Sprintf("pool directory http %d: %s", e.StatusCode, b)
}

// Fetch downloads and decodes the directory
func (c *Client) Fetch(ctx context.Context) (*Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	start := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pool directory: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	dir, err := decode(res.Body)
	if err != nil {
		return nil, err
	}

	c.Logger.WithFields(logrus.Fields{
		"url":        c.URL,
		"official":   len(dir.Official),
		"unofficial": len(dir.Unofficial),
		"took":       time.Since(start).String(),
	}).Debug("fetched pool directory")

	return dir, nil
}

// LoadFile reads a directory saved to disk in the same JSON shape
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory file: %w", err)
	}
	defer f.Close()

	return decode(f)
}

func decode(r io.Reader) (*Directory, error) {
	var dir Directory
	if err := json.NewDecoder(r).Decode(&dir); err != nil {
		return nil, fmt.Errorf("failed to decode pool directory: %w", err)
	}
	return &dir, nil
}

// Source is anything that can produce the pool directory
type Source interface {
	Fetch(ctx context.Context) (*Directory, error)
}

// File is a Source backed by a directory saved on disk
type File string

func (f File) Fetch(context.Context) (*Directory, error) {
	return LoadFile(string(f))
}

// NewSource picks the on-disk directory when path is set, the HTTP one otherwise
func NewSource(path, url string, timeout time.Duration, logger *logrus.Logger) Source {
	if strings.TrimSpace(path) != "" {
		return File(path)
	}
	return NewClient(url, timeout, logger)
}
