package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MainnetBaseURL Hyperliquid主网API地址
	MainnetBaseURL = "https://api.hyperliquid.xyz"
	// TestnetBaseURL Hyperliquid测试网API地址
	TestnetBaseURL = "https://api.hyperliquid-testnet.xyz"

	defaultHTTPTimeout = 15 * time.Second
)

var _ Exchange = (*HyperliquidClient)(nil)

// HyperliquidClient Hyperliquid信息API客户端
// 所有查询都通过 POST /info 完成
type HyperliquidClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHyperliquidClient 创建Hyperliquid客户端
func NewHyperliquidClient(baseURL, proxyURL string, testnet bool) *HyperliquidClient {
	if baseURL == "" {
		if testnet {
			baseURL = TestnetBaseURL
		} else {
			baseURL = MainnetBaseURL
		}
	}

	httpClient := &http.Client{Timeout: defaultHTTPTimeout}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}

	return &HyperliquidClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// infoRequest POST /info 请求体
type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

func (h *HyperliquidClient) post(ctx context.Context, reqBody infoRequest, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/info", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build info request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("info request returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode info response: %w", err)
	}
	return nil
}

// FetchFills 获取指定地址的历史成交记录
func (h *HyperliquidClient) FetchFills(ctx context.Context, address string) ([]*Fill, error) {
	var fills []*Fill
	err := h.post(ctx, infoRequest{Type: "userFills", User: address}, &fills)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fills for %s: %w", address, err)
	}
	return fills, nil
}

// FetchMidPrices 获取全部币种的当前中间价
func (h *HyperliquidClient) FetchMidPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	var raw map[string]string
	if err := h.post(ctx, infoRequest{Type: "allMids"}, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch mid prices: %w", err)
	}

	mids := make(map[string]decimal.Decimal, len(raw))
	for coin, px := range raw {
		price, err := decimal.NewFromString(px)
		if err != nil {
			// 单个坏报价不影响其它币种
			continue
		}
		mids[coin] = price
	}
	return mids, nil
}
