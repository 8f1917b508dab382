package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// YahooClient Yahoo Finance图表API客户端
type YahooClient struct {
	BaseURL string
	Client  *http.Client
}

// YahooChartResponse Yahoo图表API响应结构
type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooChartResult 单只股票的图表数据
type YahooChartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		Currency           string   `json:"currency"`
		ExchangeName       string   `json:"exchangeName"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []interface{} `json:"open"`
			High   []interface{} `json:"high"`
			Low    []interface{} `json:"low"`
			Close  []interface{} `json:"close"`
			Volume []interface{} `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// NewYahooClient 创建新的Yahoo客户端
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YahooClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetChart 获取指定时间区间的日线图表数据
func (c *YahooClient) GetChart(symbol string, period1, period2 int64) (*YahooChartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.BaseURL, url.PathEscape(symbol), period1, period2)
	return c.getChart(u)
}

// GetQuoteMeta 获取股票元信息，用于探测代码有效性
func (c *YahooClient) GetQuoteMeta(symbol string) (*YahooChartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		c.BaseURL, url.PathEscape(symbol))
	return c.getChart(u)
}

func (c *YahooClient) getChart(u string) (*YahooChartResult, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("构建请求失败: %w", err)
	}
	// Yahoo对默认Go UA返回429
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Yahoo API失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("Yahoo API返回异常状态: %d", resp.StatusCode)
	}

	var chart YahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo API错误: %s", chart.Chart.Error.Description)
	}

	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("Yahoo API未返回数据")
	}

	return &chart.Chart.Result[0], nil
}
