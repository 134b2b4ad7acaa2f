package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nft-gate.backend/internal/domain/entities"
)

// SourceMagicEden is the Magic Eden marketplace wallet API
const SourceMagicEden entities.SourceID = "magiceden"

const magicEdenMaxLimit = 500

// MagicEdenClient lists wallet tokens through the Magic Eden REST API
type MagicEdenClient struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

// NewMagicEdenClient creates a Magic Eden client. apiKey is optional.
func NewMagicEdenClient(baseURL, apiKey string, pageSize int, timeout time.Duration) *MagicEdenClient {
	if pageSize <= 0 || pageSize > magicEdenMaxLimit {
		pageSize = magicEdenMaxLimit
	}
	return &MagicEdenClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *MagicEdenClient) ID() entities.SourceID { return SourceMagicEden }

type magicEdenToken struct {
	MintAddress              string          `json:"mintAddress"`
	Name                     string          `json:"name"`
	Collection               string          `json:"collection"`
	OnChainCollectionAddress string          `json:"onChainCollectionAddress"`
	Attributes               json.RawMessage `json:"attributes"`
}

// FetchPage lists one offset page of tokens, scoped server side when a
// collection symbol is given.
func (c *MagicEdenClient) FetchPage(ctx context.Context, wallet, collection string, page int) (*entities.SourcePage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("offset", strconv.Itoa((page-1)*c.pageSize))
	q.Set("limit", strconv.Itoa(c.pageSize))
	if collection != "" {
		q.Set("collection_symbol", collection)
	}
	endpoint := c.baseURL + "/v2/wallets/" + url.PathEscape(wallet) + "/tokens?" + q.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var tokens []magicEdenToken
	if err := doJSON(ctx, c.httpClient, req, &tokens); err != nil {
		return nil, err
	}

	items := make([]entities.SourceAsset, 0, len(tokens))
	for _, t := range tokens {
		if t.MintAddress == "" {
			continue
		}
		var collections []string
		if t.Collection != "" {
			collections = append(collections, t.Collection)
		}
		if t.OnChainCollectionAddress != "" {
			collections = append(collections, t.OnChainCollectionAddress)
		}
		items = append(items, entities.SourceAsset{
			ID:          t.MintAddress,
			Name:        t.Name,
			Collections: collections,
			Attributes:  entities.ParseAttributes(t.Attributes),
		})
	}

	return &entities.SourcePage{
		Items:   items,
		HasMore: len(tokens) >= c.pageSize,
	}, nil
}
