package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"StockPulse/pkg/stock"
)

// BarInventory 已入库日线数据的清点接口
type BarInventory interface {
	DistinctSymbols() ([]string, error)
	CountBySymbol(symbol string) (int64, error)
}

// Scheduler 定时任务调度器，按计划刷新已入库股票的日线数据
type Scheduler struct {
	cron     *cron.Cron
	ingestor *stock.Ingestor
	symbols  BarInventory
	months   int
}

// NewScheduler 创建任务调度器
func NewScheduler(ingestor *stock.Ingestor, symbols BarInventory, months int) *Scheduler {
	if months <= 0 {
		months = 1
	}
	return &Scheduler{
		cron:     cron.New(),
		ingestor: ingestor,
		symbols:  symbols,
		months:   months,
	}
}

// Start 启动调度器，cronSpec为空时默认每个交易日收盘后刷新
func (s *Scheduler) Start(cronSpec string) error {
	if cronSpec == "" {
		cronSpec = "0 18 * * 1-5"
	}

	if _, err := s.cron.AddFunc(cronSpec, s.refreshAll); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("调度器已启动: 刷新计划=%s\n", cronSpec)
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// refreshAll 重新拉取所有已入库股票的近期日线
func (s *Scheduler) refreshAll() {
	symbols, err := s.symbols.DistinctSymbols()
	if err != nil {
		log.Printf("获取股票代码列表失败: %v\n", err)
		return
	}

	log.Printf("开始刷新日线数据: 股票数=%d\n", len(symbols))

	for _, symbol := range symbols {
		count, err := s.ingestor.Ingest(symbol, s.months)
		if err != nil {
			log.Printf("刷新日线数据失败: 股票=%s, 错误=%v\n", symbol, err)
			continue
		}

		total, err := s.symbols.CountBySymbol(symbol)
		if err != nil {
			log.Printf("统计日线记录数失败: 股票=%s, 错误=%v\n", symbol, err)
			total = -1
		}
		log.Printf("刷新日线数据成功: 股票=%s, 本次=%d, 累计=%d\n", symbol, count, total)
	}
}
