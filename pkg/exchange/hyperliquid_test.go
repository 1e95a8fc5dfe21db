package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func newInfoServer(t *testing.T, handler func(req infoRequest) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req infoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestHyperliquidClient_FetchFills(t *testing.T) {
	crossed := true
	server := newInfoServer(t, func(req infoRequest) any {
		if req.Type != "userFills" {
			t.Errorf("unexpected request type %s", req.Type)
		}
		if req.User != "0xabc" {
			t.Errorf("unexpected user %s", req.User)
		}
		return []*Fill{
			{Coin: "BTC", Side: FillSideBuy, Px: "50000", Sz: "0.5", Fee: "12.5", Time: 1700000000000, Hash: "0x1", Crossed: &crossed},
			{Coin: "ETH", Side: FillSideSell, Px: "3000", Sz: "2", Fee: "1.2", Time: 1700000001000, Hash: "0x2"},
		}
	})
	defer server.Close()

	client := NewHyperliquidClient(server.URL, "", false)
	fills, err := client.FetchFills(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchFills failed: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expecting 2 fills got %d", len(fills))
	}
	if fills[0].Coin != "BTC" || fills[0].Side != FillSideBuy {
		t.Errorf("unexpected first fill %+v", fills[0])
	}
	if fills[0].Crossed == nil || !*fills[0].Crossed {
		t.Errorf("expecting crossed=true")
	}
	if fills[1].Crossed != nil {
		t.Errorf("expecting crossed to stay nil when absent")
	}
}

func TestHyperliquidClient_FetchMidPrices(t *testing.T) {
	server := newInfoServer(t, func(req infoRequest) any {
		if req.Type != "allMids" {
			t.Errorf("unexpected request type %s", req.Type)
		}
		return map[string]string{
			"BTC": "50000.5",
			"ETH": "3000",
			"BAD": "not-a-number",
		}
	})
	defer server.Close()

	client := NewHyperliquidClient(server.URL, "", false)
	mids, err := client.FetchMidPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchMidPrices failed: %v", err)
	}
	if len(mids) != 2 {
		t.Fatalf("expecting 2 valid quotes got %d", len(mids))
	}
	if !mids["BTC"].Equal(mustDecimal(t, "50000.5")) {
		t.Errorf("unexpected BTC mid %s", mids["BTC"])
	}
	if _, ok := mids["BAD"]; ok {
		t.Errorf("malformed quote should be skipped")
	}
}

func TestHyperliquidClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHyperliquidClient(server.URL, "", false)
	if _, err := client.FetchFills(context.Background(), "0xabc"); err == nil {
		t.Fatal("expecting error on non-200 status")
	}
}

func TestNewHyperliquidClient_DefaultBaseURL(t *testing.T) {
	mainnet := NewHyperliquidClient("", "", false)
	if mainnet.baseURL != MainnetBaseURL {
		t.Errorf("expecting mainnet base URL got %s", mainnet.baseURL)
	}
	testnet := NewHyperliquidClient("", "", true)
	if testnet.baseURL != TestnetBaseURL {
		t.Errorf("expecting testnet base URL got %s", testnet.baseURL)
	}
}
