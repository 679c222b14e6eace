package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Remote operations, used in errors and logs.
const (
	opFetch = "fetch"
	opPush  = "push"
)

// RemoteQuoteClientConfig contains configuration for the remote quote client.
type RemoteQuoteClientConfig struct {
	// Client is the instrumented HTTP client; its BaseURL points at the remote host.
	Client *clients.Client

	// ServiceName names the remote in errors and health output.
	ServiceName string

	// PostsPath is the collection path, e.g. "/posts".
	PostsPath string

	// UserID is the owner identifier sent with pushed quotes.
	UserID int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// RemoteQuoteClient implements ports.RemoteQuotes against a posts-style REST endpoint.
type RemoteQuoteClient struct {
	x exchange

	postsPath string
	userID    int
	logger    *slog.Logger
}

// NewRemoteQuoteClient creates a new remote quote client.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewRemoteQuoteClient(cfg RemoteQuoteClientConfig) *RemoteQuoteClient {
	if cfg.Client == nil {
		panic("RemoteQuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.ServiceName
	if name == "" {
		name = "remote-quotes"
	}

	path := cfg.PostsPath
	if path == "" {
		path = "/posts"
	}

	return &RemoteQuoteClient{
		x:         exchange{client: cfg.Client, service: name},
		postsPath: path,
		userID:    cfg.UserID,
		logger:    logger.With(slog.String("component", "acl.RemoteQuoteClient")),
	}
}

// remotePost is the external DTO. It never leaves this package.
type remotePost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// pushRequest is the body sent when pushing a quote.
type pushRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// pushResponse is the echo returned for an accepted push.
type pushResponse struct {
	ID int `json:"id"`
}

// FetchRemoteQuotes reads every remote post and translates it to a quote.
// Implements ports.RemoteQuotes.
func (c *RemoteQuoteClient) FetchRemoteQuotes(ctx context.Context) ([]domain.Quote, error) {
	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "fetching remote quotes", slog.String("path", c.postsPath))

	body, err := c.x.get(ctx, c.postsPath, opFetch)
	if err != nil {
		return nil, err
	}

	posts, err := decodeJSON[[]remotePost](body, opFetch)
	if err != nil {
		return nil, err
	}

	quotes, skipped, err := translateAll(posts, translatePost)
	if err != nil {
		return nil, domain.NewRemoteError(opFetch, 0, err.Error())
	}

	if skipped > 0 {
		logger.DebugContext(ctx, "skipped remote posts without a title", slog.Int("skipped", skipped))
	}

	logger.Log(ctx, logging.LevelTrace, "translated remote posts",
		slog.Int("posts", len(posts)),
		slog.Int("quotes", len(quotes)))

	return quotes, nil
}

// PushQuote submits a single quote. The endpoint's acceptance is reported as is.
// Implements ports.RemoteQuotes.
func (c *RemoteQuoteClient) PushQuote(ctx context.Context, quote domain.Quote) (*ports.PushResult, error) {
	payload, err := json.Marshal(pushRequest{
		Title:  quote.Text,
		Body:   quote.Category,
		UserID: c.userID,
	})
	if err != nil {
		return nil, domain.NewRemoteError(opPush, 0, err.Error())
	}

	body, err := c.x.post(ctx, c.postsPath, bytes.NewReader(payload), opPush)
	if err != nil {
		return nil, err
	}

	// An empty or non-JSON echo still means the push was accepted.
	echo, decodeErr := decodeJSON[pushResponse](body, opPush)
	if decodeErr != nil {
		logging.FromContext(ctx).DebugContext(ctx, "push accepted without a readable echo",
			slog.Any("error", decodeErr))
	}

	return &ports.PushResult{RemoteID: echo.ID}, nil
}

// Circuit returns the breaker state guarding the remote endpoint.
func (c *RemoteQuoteClient) Circuit() clients.Snapshot {
	return c.x.client.CircuitSnapshot()
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *RemoteQuoteClient) Name() string {
	return c.x.service
}

// Optional marks the remote as non-critical: local quotes keep working without it.
// Implements ports.OptionalChecker.
func (c *RemoteQuoteClient) Optional() bool {
	return true
}

// Check asks the remote for a single post.
// Implements ports.HealthChecker.
func (c *RemoteQuoteClient) Check(ctx context.Context) error {
	probe := c.postsPath + "?" + url.Values{"_limit": []string{"1"}}.Encode()

	body, err := c.x.get(ctx, probe, opFetch)
	if err != nil {
		return err
	}

	return body.Close()
}

// translatePost converts a remote post into a quote. The title is kept as
// sent so a pushed quote matches its echo exactly on the next merge.
func translatePost(post *remotePost) (domain.Quote, error) {
	if strings.TrimSpace(post.Title) == "" {
		return domain.Quote{}, errSkip
	}

	return domain.Quote{Text: post.Title, Category: categoryFromBody(post.Body)}, nil
}

// categoryFromBody returns the first whitespace-delimited token of body,
// or domain.FallbackCategory when there is none.
func categoryFromBody(body string) string {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return domain.FallbackCategory
	}

	return fields[0]
}
