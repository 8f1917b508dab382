package stock

import "errors"

// 入库流程的错误类别，供HTTP层映射状态码
var (
	// ErrInvalidSymbol 股票代码无效
	ErrInvalidSymbol = errors.New("无效的股票代码")
	// ErrFetchFailed 外部数据源获取失败或无数据
	ErrFetchFailed = errors.New("获取行情数据失败")
)
