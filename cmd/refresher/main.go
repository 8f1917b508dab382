package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/pkg/collector"
	"StockPulse/pkg/config"
	"StockPulse/pkg/database"
	"StockPulse/pkg/messaging"
	"StockPulse/pkg/scheduler"
	"StockPulse/pkg/stock"
)

func main() {
	log.Println("启动日线刷新服务...")

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

	// 创建数据源适配器
	fetcher := collector.NewYahooAdapter(
		cfg.DataSources.Yahoo.BaseURL,
		cfg.DataSources.Yahoo.Timeout,
	)

	// NATS可选
	var publisher stock.EventPublisher
	if cfg.NATS.Enabled {
		nc, err := messaging.NewNATSClient(cfg.NATS.URL)
		if err != nil {
			log.Printf("警告: 连接NATS失败，入库事件将不发布: %v\n", err)
		} else {
			defer nc.Close()
			publisher = nc

			// 订阅入库事件，记录各服务写入的日线数据
			sub, err := nc.SubscribeIngested(func(event stock.IngestedEvent) {
				log.Printf("收到入库事件: 股票=%s, 记录=%d, 时间=%s\n",
					event.Symbol, event.Records, event.IngestedAt.Format("2006-01-02 15:04:05"))
			})
			if err != nil {
				log.Printf("警告: 订阅入库事件失败: %v\n", err)
			} else {
				defer sub.Unsubscribe()
			}
		}
	}

	barDB := db.Bar()
	ingestor := stock.NewIngestor(fetcher, barDB, publisher)

	// 启动调度器
	sched := scheduler.NewScheduler(ingestor, barDB, cfg.Scheduler.RefreshMonths)
	if err := sched.Start(cfg.Scheduler.RefreshCron); err != nil {
		log.Fatalf("启动调度器失败: %v\n", err)
	}
	defer sched.Stop()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("刷新服务已停止")
}
