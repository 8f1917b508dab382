package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"StockPulse/pkg/analytics"
	"StockPulse/pkg/auth"
	"StockPulse/pkg/model"
	"StockPulse/pkg/stock"
)

// AuthService 用户注册登录接口
type AuthService interface {
	Register(username, email, password string) (*model.User, error)
	Login(email, password string) (*model.User, error)
}

// StockIngestor 日线数据入库接口
type StockIngestor interface {
	Ingest(symbol string, months int) (int, error)
}

// StatsComputer 统计摘要计算接口
type StatsComputer interface {
	Compute(symbol string, days int) (*model.Statistics, error)
}

// StockPredictor 趋势预测接口
type StockPredictor interface {
	Predict(symbol string, horizon string) (*model.Prediction, error)
}

// BarQuerier 日线数据查询接口
type BarQuerier interface {
	QueryRange(symbol string, startDate, endDate *time.Time, limit int) ([]*model.StockBar, error)
}

// Handlers API处理程序
type Handlers struct {
	auth      AuthService
	ingestor  StockIngestor
	stats     StatsComputer
	predictor StockPredictor
	bars      BarQuerier
}

// NewHandlers 创建新的API处理程序
func NewHandlers(
	auth AuthService,
	ingestor StockIngestor,
	stats StatsComputer,
	predictor StockPredictor,
	bars BarQuerier,
) *Handlers {
	return &Handlers{
		auth:      auth,
		ingestor:  ingestor,
		stats:     stats,
		predictor: predictor,
		bars:      bars,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// SignupRequest 注册请求
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup 用户注册处理程序
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	_, err := h.auth.Register(req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Username already exists",
		})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Email already exists",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Registration failed",
		})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
		})
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 用户登录处理程序
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing email or password",
		})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing email or password",
		})
		return
	}

	user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"email":    user.Email,
		"username": user.Username,
	})
}

// FetchRequest 日线抓取请求
type FetchRequest struct {
	Symbol string `json:"symbol"`
	Months int    `json:"months"`
}

// FetchStock 抓取并入库历史日线，返回同窗口的统计摘要
func (h *Handlers) FetchStock(c *gin.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing symbol",
		})
		return
	}

	if strings.TrimSpace(req.Symbol) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing symbol",
		})
		return
	}

	months := req.Months
	if months <= 0 {
		months = 3
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))

	_, err := h.ingestor.Ingest(symbol, months)
	switch {
	case errors.Is(err, stock.ErrInvalidSymbol), errors.Is(err, stock.ErrFetchFailed):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Failed to fetch data",
		})
		return
	case err != nil:
		// 入库失败，整批已回滚
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to store data",
		})
		return
	}

	stats, err := h.stats.Compute(symbol, months*30)
	if err != nil && !errors.Is(err, analytics.ErrNoData) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to compute statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"statistics": stats,
		},
	})
}

// GetStockData 查询已入库的日线数据和统计摘要
func (h *Handlers) GetStockData(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	limit := parseIntQuery(c, "limit", 90)
	days := parseIntQuery(c, "days", 90)

	bars, err := h.bars.QueryRange(symbol, nil, nil, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to query data",
		})
		return
	}
	if len(bars) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "No data found",
		})
		return
	}

	stats, err := h.stats.Compute(symbol, days)
	if err != nil && !errors.Is(err, analytics.ErrNoData) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to compute statistics",
		})
		return
	}

	// 反转为时间正序输出
	records := make([]model.BarRecord, 0, len(bars))
	for i := len(bars) - 1; i >= 0; i-- {
		records = append(records, bars[i].ToRecord())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"records":    records,
			"statistics": stats,
		},
	})
}

// PredictStock 趋势预测处理程序
func (h *Handlers) PredictStock(c *gin.Context) {
	symbol := c.Param("symbol")
	horizon := c.DefaultQuery("horizon", "day")

	prediction, err := h.predictor.Predict(symbol, horizon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Prediction failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"prediction": prediction,
	})
}

// parseIntQuery 解析整数查询参数，非法时取默认值
func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
