// Package drive downloads storefront media from Google Drive.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"raffle-storefront/internal/entities"
)

// ErrCredentialsMissing is returned when client id, secret or refresh token is not configured.
var ErrCredentialsMissing = errors.New("drive credentials missing")

const maxErrorBody = 512

// DefaultMaxBytes caps a single download when Config.MaxBytes is unset.
const DefaultMaxBytes int64 = 25 << 20

// Config holds OAuth2 credentials and endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	FilesURL     string
	ExpiryMargin time.Duration
	Timeout      time.Duration
	MaxBytes     int64
}

// Media is a downloaded file with its resolved content type.
type Media struct {
	Bytes       []byte
	ContentType string
}

// DataURL encodes the media as a base64 data URL.
func (m Media) DataURL() string {
	return entities.EncodeDataURL(m.ContentType, m.Bytes)
}

// Client fetches file contents with a refreshed bearer token.
type Client struct {
	log      *zap.SugaredLogger
	filesURL string
	http     *http.Client
	maxBytes int64
	ready    bool
}

// New builds a Drive client. Missing credentials are reported on download, not here.
func New(cfg Config, log *zap.SugaredLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := &http.Client{Timeout: timeout}

	endpoint := endpoints.Google
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.ReuseTokenSourceWithExpiry(nil, &refresher{
		ctx:          ctx,
		conf:         conf,
		refreshToken: cfg.RefreshToken,
		log:          log,
	}, cfg.ExpiryMargin)

	filesURL := cfg.FilesURL
	if filesURL == "" {
		filesURL = "https://www.googleapis.com/drive/v3/files"
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Client{
		log:      log,
		filesURL: strings.TrimRight(filesURL, "/"),
		http:     oauth2.NewClient(ctx, src),
		maxBytes: maxBytes,
		ready:    cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RefreshToken != "",
	}
}

// refresher exchanges the long-lived refresh token for a new access token on every call;
// caching with the expiry margin is left to the wrapping ReuseTokenSource.
type refresher struct {
	ctx          context.Context
	conf         *oauth2.Config
	refreshToken string
	log          *zap.SugaredLogger
}

func (r *refresher) Token() (*oauth2.Token, error) {
	tok, err := r.conf.TokenSource(r.ctx, &oauth2.Token{RefreshToken: r.refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh drive token: %w", err)
	}
	r.log.Debugw("drive token refreshed", "expiry", tok.Expiry)
	return tok, nil
}

// Download fetches the raw bytes of a Drive file. Files larger than the
// configured limit are rejected without being buffered whole.
func (c *Client) Download(ctx context.Context, fileID string) (Media, error) {
	if !c.ready {
		return Media{}, ErrCredentialsMissing
	}
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return Media{}, fmt.Errorf("%w: empty file id", entities.ErrInvalidArgument)
	}

	endpoint := c.filesURL + "/" + url.PathEscape(fileID) + "?alt=media"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Media{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Media{}, fmt.Errorf("%w: download %s: %v", entities.ErrUpstream, fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusNotFound {
			return Media{}, fmt.Errorf("%w: drive file %s", entities.ErrNotFound, fileID)
		}
		return Media{}, fmt.Errorf("%w: drive status %d: %s", entities.ErrUpstream, resp.StatusCode, string(data))
	}

	if resp.ContentLength > c.maxBytes {
		return Media{}, c.tooLarge(fileID)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return Media{}, fmt.Errorf("%w: read %s: %v", entities.ErrUpstream, fileID, err)
	}
	if int64(len(body)) > c.maxBytes {
		return Media{}, c.tooLarge(fileID)
	}

	return Media{
		Bytes:       body,
		ContentType: DetectContentType(resp.Header.Get("Content-Type"), body),
	}, nil
}

func (c *Client) tooLarge(fileID string) error {
	c.log.Warnw("drive file over size limit", "file_id", fileID, "max_bytes", c.maxBytes)
	return fmt.Errorf("%w: drive file %s exceeds %d bytes", entities.ErrUpstream, fileID, c.maxBytes)
}

// DownloadDataURL fetches a file and returns it as a data URL.
func (c *Client) DownloadDataURL(ctx context.Context, fileID string) (string, error) {
	m, err := c.Download(ctx, fileID)
	if err != nil {
		return "", err
	}
	return m.DataURL(), nil
}
