package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-gate.backend/internal/domain/entities"
)

func TestDASClient_FetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dasRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getAssetsByOwner", req.Method)
		assert.Equal(t, "Wallet1", req.Params.OwnerAddress)
		assert.Equal(t, 2, req.Params.Page)
		assert.Equal(t, 2, req.Params.Limit)

		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"nft-gate","result":{"total":2,"limit":2,"page":2,"items":[
			{"id":"Mint1","content":{"metadata":{"name":"Ape #1","attributes":[{"trait_type":"Background","value":"Gold"},{"trait_type":"Level","value":3}]}},
			 "grouping":[{"group_key":"collection","group_value":"COLL"}]},
			{"id":"Mint2","burnt":true,"content":{"metadata":{"name":"gone"}}}
		]}}`))
	}))
	defer srv.Close()

	c := NewDASClient(srv.URL, 2, time.Second)
	page, err := c.FetchPage(context.Background(), "Wallet1", "ignored", 2)
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, "Mint1", item.ID)
	assert.Equal(t, "Ape #1", item.Name)
	assert.Equal(t, []string{"COLL"}, item.Collections)
	assert.Equal(t, []entities.Attribute{{Type: "Background", Value: "Gold"}, {Type: "Level", Value: "3"}}, item.Attributes)
}

func TestDASClient_Throttling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewDASClient(srv.URL, 10, time.Second).FetchPage(context.Background(), "W", "", 1)
	assert.ErrorIs(t, err, ErrThrottled)

	rpcLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32429,"message":"rate limited"}}`))
	}))
	defer rpcLimited.Close()

	_, err = NewDASClient(rpcLimited.URL, 10, time.Second).FetchPage(context.Background(), "W", "", 1)
	assert.ErrorIs(t, err, ErrThrottled)
}

func TestDASClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"bad owner"}}`))
	}))
	defer srv.Close()

	_, err := NewDASClient(srv.URL, 10, time.Second).FetchPage(context.Background(), "W", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad owner")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	defer down.Close()

	_, err = NewDASClient(down.URL, 10, time.Second).FetchPage(context.Background(), "W", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
