package document

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/resume-scorer"
	acceptEncoding  = "gzip"
	defaultTimeout  = 10 * time.Second
	maxDocumentSize = 20 << 20
)

// URL is a document fetched over HTTP, typically a published job description.
type URL struct {
	url         string
	HTTPClient  *http.Client
	UserAgent   string
	logger      *zap.Logger
	contentType string
}

// URLSource returns a Source fetching url.
func URLSource(url string, logger *zap.Logger) *URL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URL{
		url: url,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: userAgent,
		logger:    logger,
	}
}

func (u *URL) Name() string {
	return u.url
}

// Extension maps the response content type onto an extractor. It is empty
// until the document has been read.
func (u *URL) Extension() string {
	switch u.contentType {
	case "":
		return ""
	case "text/html", "application/xhtml+xml":
		return ".html"
	case "application/pdf":
		return ".pdf"
	case "text/markdown":
		return ".md"
	default:
		return ".txt"
	}
}

func (u *URL) Read(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", u.UserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)

	u.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxDocumentSize))
	if err != nil {
		return nil, err
	}

	u.contentType = "text/plain"
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		u.contentType = mediaType
	}

	return data, nil
}
