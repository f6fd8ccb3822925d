// Package monday implements the board client against the monday.com
// GraphQL API.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	boarddomain "github.com/retentionops/portal/internal/board/domain"
	"github.com/retentionops/portal/internal/config"
	"go.uber.org/zap"
)

const defaultAPIURL = "https://api.monday.com/v2"

type Client struct {
	apiURL string
	token  string
	client *http.Client
	log    *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) boarddomain.Client {
	apiURL := strings.TrimSpace(cfg.Board.APIURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := cfg.ExternalTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiURL: apiURL,
		token:  strings.TrimSpace(cfg.Board.APIToken),
		client: &http.Client{Timeout: timeout},
		log:    log.Named("board.monday"),
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type itemsPayload struct {
	Boards []struct {
		ItemsPage struct {
			Items []struct {
				ID           string `json:"id"`
				Name         string `json:"name"`
				ColumnValues []struct {
					ID   string `json:"id"`
					Text string `json:"text"`
				} `json:"column_values"`
			} `json:"items"`
		} `json:"items_page"`
	} `json:"boards"`
}

func (c *Client) ListItems(ctx context.Context, boardID string) ([]boarddomain.Item, error) {
	if strings.TrimSpace(boardID) == "" {
		return nil, boarddomain.ErrMissingBoard
	}

	const query = `query ($boardId: [ID!]) {
	  boards(ids: $boardId) {
	    items_page(limit: 100) {
	      items { id name column_values { id text } }
	    }
	  }
	}`

	return c.fetchItems(ctx, query, map[string]any{"boardId": []string{boardID}})
}

func (c *Client) ItemsByStatus(ctx context.Context, boardID, columnID, status string) ([]boarddomain.Item, error) {
	if strings.TrimSpace(boardID) == "" {
		return nil, boarddomain.ErrMissingBoard
	}

	const query = `query ($boardId: ID!, $columnId: String!, $status: CompareValue!) {
	  boards(ids: [$boardId]) {
	    items_page(limit: 100, query_params: {rules: [{column_id: $columnId, compare_value: $status}]}) {
	      items { id name column_values { id text } }
	    }
	  }
	}`

	return c.fetchItems(ctx, query, map[string]any{
		"boardId":  boardID,
		"columnId": columnID,
		"status":   []string{status},
	})
}

func (c *Client) UpdateColumn(ctx context.Context, boardID, itemID, columnID, value string) error {
	if strings.TrimSpace(boardID) == "" {
		return boarddomain.ErrMissingBoard
	}
	if strings.TrimSpace(itemID) == "" {
		return boarddomain.ErrMissingItem
	}

	const mutation = `mutation ($boardId: ID!, $itemId: ID!, $columnId: String!, $value: String!) {
	  change_simple_column_value(board_id: $boardId, item_id: $itemId, column_id: $columnId, value: $value) { id }
	}`

	_, err := c.do(ctx, graphqlRequest{
		Query: mutation,
		Variables: map[string]any{
			"boardId":  boardID,
			"itemId":   itemID,
			"columnId": columnID,
			"value":    value,
		},
	})
	return err
}

func (c *Client) fetchItems(ctx context.Context, query string, variables map[string]any) ([]boarddomain.Item, error) {
	data, err := c.do(ctx, graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	var payload itemsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", boarddomain.ErrBoardAPI, err)
	}

	var items []boarddomain.Item
	for _, board := range payload.Boards {
		for _, raw := range board.ItemsPage.Items {
			item := boarddomain.Item{
				ID:      raw.ID,
				Name:    raw.Name,
				Columns: make(map[string]string, len(raw.ColumnValues)),
			}
			for _, column := range raw.ColumnValues {
				item.Columns[column.ID] = column.Text
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, request graphqlRequest) (json.RawMessage, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("board request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", boarddomain.ErrBoardAPI, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", boarddomain.ErrBoardAPI, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("board request rejected",
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", boarddomain.ErrBoardAPI, resp.StatusCode)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", boarddomain.ErrBoardAPI, err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", boarddomain.ErrBoardAPI, parsed.Errors[0].Message)
	}
	return parsed.Data, nil
}
