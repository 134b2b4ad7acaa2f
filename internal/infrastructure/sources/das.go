package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nft-gate.backend/internal/domain/entities"
)

// SourceDAS is a Digital Asset Standard (Metaplex read API) provider
const SourceDAS entities.SourceID = "das"

// DAS JSON-RPC error codes that mean "slow down"
const (
	dasRateLimitCode    = 429
	dasRateLimitCodeAlt = -32429
)

// DASClient queries getAssetsByOwner on a DAS compatible RPC endpoint
type DASClient struct {
	endpoint   string
	pageSize   int
	httpClient *http.Client
}

// NewDASClient creates a DAS client
func NewDASClient(endpoint string, pageSize int, timeout time.Duration) *DASClient {
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000
	}
	return &DASClient{
		endpoint:   endpoint,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *DASClient) ID() entities.SourceID { return SourceDAS }

type dasRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      string         `json:"id"`
	Method  string         `json:"method"`
	Params  dasOwnerParams `json:"params"`
}

type dasOwnerParams struct {
	OwnerAddress string `json:"ownerAddress"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
}

type dasResponse struct {
	Result *struct {
		Total int        `json:"total"`
		Limit int        `json:"limit"`
		Page  int        `json:"page"`
		Items []dasAsset `json:"items"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type dasAsset struct {
	ID      string `json:"id"`
	Content struct {
		Metadata struct {
			Name       string          `json:"name"`
			Attributes json.RawMessage `json:"attributes"`
		} `json:"metadata"`
	} `json:"content"`
	Grouping []struct {
		GroupKey   string `json:"group_key"`
		GroupValue string `json:"group_value"`
	} `json:"grouping"`
	Burnt bool `json:"burnt"`
}

// FetchPage lists one page of owned assets. DAS cannot filter by collection
// server side, so the hint is ignored.
func (c *DASClient) FetchPage(ctx context.Context, wallet, _ string, page int) (*entities.SourcePage, error) {
	body, err := json.Marshal(dasRequest{
		JSONRPC: "2.0",
		ID:      "nft-gate",
		Method:  "getAssetsByOwner",
		Params: dasOwnerParams{
			OwnerAddress: wallet,
			Page:         page,
			Limit:        c.pageSize,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp dasResponse
	if err := doJSON(ctx, c.httpClient, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if resp.Error.Code == dasRateLimitCode || resp.Error.Code == dasRateLimitCodeAlt {
			return nil, ErrThrottled
		}
		return nil, fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil {
		return &entities.SourcePage{}, nil
	}

	items := make([]entities.SourceAsset, 0, len(resp.Result.Items))
	for _, a := range resp.Result.Items {
		if a.ID == "" || a.Burnt {
			continue
		}
		var collections []string
		for _, g := range a.Grouping {
			if g.GroupKey == "collection" && g.GroupValue != "" {
				collections = append(collections, g.GroupValue)
			}
		}
		items = append(items, entities.SourceAsset{
			ID:          a.ID,
			Name:        a.Content.Metadata.Name,
			Collections: collections,
			Attributes:  entities.ParseAttributes(a.Content.Metadata.Attributes),
		})
	}

	return &entities.SourcePage{
		Items:   items,
		HasMore: len(resp.Result.Items) >= c.pageSize,
	}, nil
}
