package paperless

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

// RequestObserver receives the duration and status of each API call.
// status is 0 when the request never got a response.
type RequestObserver func(operation string, status int, duration time.Duration)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	observe    RequestObserver
}

type Options struct {
	// Timeout of zero keeps the net/http default, which never times out.
	Timeout  time.Duration
	Observer RequestObserver
}

// New expects baseURL to already end with the path separator, e.g.
// "http://localhost:8000/api/". It is used verbatim as a prefix.
func New(baseURL, token string) *Client {
	return NewWithOptions(baseURL, token, Options{})
}

func NewWithOptions(baseURL, token string, options Options) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: options.Timeout},
		observe:    options.Observer,
	}
}

func (c *Client) documentURL(id int) string {
	return c.baseURL + "documents/" + strconv.Itoa(id) + "/"
}

type documentResponse struct {
	Title       *string `json:"title"`
	CreatedDate *string `json:"created_date"`
}

func (c *Client) GetDocument(ctx context.Context, id int) (domain.DocumentProperties, error) {
	var response documentResponse
	if err := c.doJSON(ctx, http.MethodGet, c.documentURL(id), nil, &response, "get document"); err != nil {
		return domain.DocumentProperties{}, err
	}

	var missing []string
	if response.Title == nil {
		missing = append(missing, "title")
	}
	if response.CreatedDate == nil {
		missing = append(missing, "created_date")
	}
	if len(missing) > 0 {
		return domain.DocumentProperties{}, domain.WrapError(
			domain.ErrUnexpectedResponse,
			"get document",
			fmt.Errorf("unable to parse document data: missing fields %v", missing),
		)
	}

	return domain.DocumentProperties{
		Title:       *response.Title,
		CreatedDate: *response.CreatedDate,
	}, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id int, props domain.DocumentProperties) error {
	return c.doJSON(ctx, http.MethodPatch, c.documentURL(id), props, nil, "update document")
}
