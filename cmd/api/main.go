package main

import (
	"log"

	"StockPulse/pkg/analytics"
	"StockPulse/pkg/api"
	"StockPulse/pkg/auth"
	"StockPulse/pkg/collector"
	"StockPulse/pkg/config"
	"StockPulse/pkg/database"
	"StockPulse/pkg/messaging"
	"StockPulse/pkg/stock"
)

func main() {
	log.Println("启动API服务...")

	// 加载配置
	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 连接数据库
	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("连接数据库失败: %v\n", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("迁移表结构失败: %v\n", err)
	}

	// 创建数据源适配器
	fetcher := collector.NewYahooAdapter(
		cfg.DataSources.Yahoo.BaseURL,
		cfg.DataSources.Yahoo.Timeout,
	)

	// NATS可选，不可用时降级为只入库不发事件
	var publisher stock.EventPublisher
	if cfg.NATS.Enabled {
		nc, err := messaging.NewNATSClient(cfg.NATS.URL)
		if err != nil {
			log.Printf("警告: 连接NATS失败，入库事件将不发布: %v\n", err)
		} else {
			defer nc.Close()
			publisher = nc
		}
	}

	// 组装核心服务
	barDB := db.Bar()
	ingestor := stock.NewIngestor(fetcher, barDB, publisher)
	aggregator := analytics.NewAggregator(barDB)
	predictor := analytics.NewPredictor(barDB, nil)
	authService := auth.NewService(db.User())

	// 创建API处理程序
	handlers := api.NewHandlers(authService, ingestor, aggregator, predictor, barDB)

	// 创建并启动服务器
	port := cfg.API.Port
	if port == "" {
		port = "8080"
	}
	server := api.NewServer(port)
	server.SetupRoutes(handlers)
	server.Start()
}
