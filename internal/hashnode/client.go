package hashnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// DefaultEndpoint is the public GraphQL endpoint.
const DefaultEndpoint = "https://gql.hashnode.com"

// Text codes attached to client errors.
const (
	TextCodeQueryFailed     = "REMOTE_QUERY_FAILED"
	TextCodeSubmitFailed    = "REMOTE_SUBMIT_FAILED"
	TextCodeTransportFailed = "TRANSPORT_FAILED"
)

// MetadataRemoteErrors is the error metadata key holding remote messages.
const MetadataRemoteErrors = "remote_errors"

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig wires a Client.
type ClientConfig struct {
	Endpoint   string
	Token      string
	HTTPClient Doer
	Logger     interfaces.Logger
}

// Client talks to the remote GraphQL API.
type Client struct {
	endpoint string
	token    string
	http     Doer
	logger   interfaces.Logger
}

var _ interfaces.RemotePublishAPI = (*Client)(nil)

// NewClient returns a Client for cfg.
func NewClient(cfg ClientConfig) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     doer,
		logger:   logger,
	}
}

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

type idNode struct {
	ID string `json:"id"`
}

// PublishIDs resolves the publication id for host and the ids of tags. Tags
// the remote does not know are absent from the result.
func (c *Client) PublishIDs(ctx context.Context, host string, tags []string) (*interfaces.PublishIDs, error) {
	data, err := c.do(ctx, BuildPublishIDsRequest(host, tags), TextCodeQueryFailed)
	if err != nil {
		return nil, err
	}

	var nodes map[string]*idNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, transportError(err, "hashnode: decode publish ids")
	}

	publication := nodes["publication"]
	if publication == nil || publication.ID == "" {
		return nil, goerrors.New("hashnode: no publication found for host", goerrors.CategoryExternal).
			WithTextCode(TextCodeQueryFailed).
			WithMetadata(map[string]any{
				"host":               host,
				MetadataRemoteErrors: []string{"publication not found"},
			})
	}

	ids := &interfaces.PublishIDs{
		PublicationID: publication.ID,
		TagIDs:        map[string]string{},
	}
	for i, tag := range tags {
		if node := nodes[TagAlias(i)]; node != nil && node.ID != "" {
			ids.TagIDs[tag] = node.ID
		}
	}
	return ids, nil
}

// PublishPost submits input and returns the identity the remote assigned.
func (c *Client) PublishPost(ctx context.Context, input interfaces.PublishPostInput) (*interfaces.PublishedPost, error) {
	data, err := c.do(ctx, BuildPublishPostRequest(input), TextCodeSubmitFailed)
	if err != nil {
		return nil, err
	}

	var payload struct {
		PublishPost *struct {
			Post *struct {
				ID   string `json:"id"`
				Slug string `json:"slug"`
			} `json:"post"`
		} `json:"publishPost"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, transportError(err, "hashnode: decode publish post")
	}
	if payload.PublishPost == nil || payload.PublishPost.Post == nil || payload.PublishPost.Post.Slug == "" {
		return nil, goerrors.New("hashnode: publish response carried no post", goerrors.CategoryExternal).
			WithTextCode(TextCodeSubmitFailed).
			WithMetadata(map[string]any{MetadataRemoteErrors: []string{"empty publishPost payload"}})
	}

	return &interfaces.PublishedPost{
		ID:   payload.PublishPost.Post.ID,
		Slug: payload.PublishPost.Post.Slug,
	}, nil
}

func (c *Client) do(ctx context.Context, request Request, failureCode string) (json.RawMessage, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "hashnode: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err, "hashnode: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	c.logger.Debug("hashnode.request", "operation", request.OperationName, "endpoint", c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err, "hashnode: send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err, "hashnode: read response")
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, transportError(err, "hashnode: response is not JSON").
			WithMetadata(map[string]any{"status": resp.StatusCode, "body": truncate(string(raw), 512)})
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return nil, goerrors.New(fmt.Sprintf("hashnode: %s returned errors: %s", request.OperationName, strings.Join(messages, "; ")), goerrors.CategoryExternal).
			WithTextCode(failureCode).
			WithCode(resp.StatusCode).
			WithMetadata(map[string]any{MetadataRemoteErrors: messages})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerrors.New(fmt.Sprintf("hashnode: unexpected status %d", resp.StatusCode), goerrors.CategoryExternal).
			WithTextCode(TextCodeTransportFailed).
			WithCode(resp.StatusCode)
	}

	if len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return nil, goerrors.New("hashnode: response carried no data", goerrors.CategoryExternal).
			WithTextCode(failureCode)
	}
	return decoded.Data, nil
}

// RemoteMessages returns the remote supplied error messages carried by err.
func RemoteMessages(err error) []string {
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.Metadata == nil {
		return nil
	}
	messages, _ := typed.Metadata[MetadataRemoteErrors].([]string)
	return messages
}

func transportError(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).WithTextCode(TextCodeTransportFailed)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "..."
}
