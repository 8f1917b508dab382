package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"StockPulse/pkg/model"
)

type BarDB struct {
	db *gorm.DB
}

func (p *Postgres) Bar() *BarDB {
	return &BarDB{db: p.db}
}

// UpsertBatch 批量写入日线数据，按 (symbol, date) 插入或更新。
// 整批在一个事务中提交，任一条失败则全部回滚。
func (b *BarDB) UpsertBatch(symbol string, bars []*model.StockBar) error {
	if len(bars) == 0 {
		return nil
	}

	var inserted, updated int

	err := b.db.Transaction(func(tx *gorm.DB) error {
		for _, bar := range bars {
			var existing model.StockBar
			err := tx.Where("symbol = ? AND date = ?", symbol, bar.Date).First(&existing).Error

			switch {
			case err == nil:
				// 已存在则覆盖价格和成交量，刷新updated_at
				updates := map[string]interface{}{
					"open":       bar.Open,
					"high":       bar.High,
					"low":        bar.Low,
					"close":      bar.Close,
					"volume":     bar.Volume,
					"updated_at": time.Now(),
				}
				if err := tx.Model(&model.StockBar{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("更新日线数据失败: %w", err)
				}
				updated++
			case err == gorm.ErrRecordNotFound:
				bar.Symbol = symbol
				if err := tx.Create(bar).Error; err != nil {
					return fmt.Errorf("插入日线数据失败: %w", err)
				}
				inserted++
			default:
				return fmt.Errorf("查询日线数据失败: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("保存日线数据失败: %w", err)
	}

	// 插入/更新数量仅用于日志，不属于调用方契约
	log.Printf("保存日线数据成功: 股票=%s, 新增=%d, 更新=%d\n", symbol, inserted, updated)
	return nil
}

// QueryRange 按日期倒序查询日线数据，可选日期区间和数量上限
func (b *BarDB) QueryRange(symbol string, startDate, endDate *time.Time, limit int) ([]*model.StockBar, error) {
	query := b.db.Where("symbol = ?", symbol)

	if startDate != nil {
		query = query.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("date <= ?", *endDate)
	}

	query = query.Order("date DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var bars []*model.StockBar
	if err := query.Find(&bars).Error; err != nil {
		return nil, fmt.Errorf("查询日线数据失败: %w", err)
	}
	return bars, nil
}

// DistinctSymbols 获取已入库的全部股票代码
func (b *BarDB) DistinctSymbols() ([]string, error) {
	var symbols []string
	err := b.db.Model(&model.StockBar{}).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error

	if err != nil {
		return nil, fmt.Errorf("查询股票代码列表失败: %w", err)
	}
	return symbols, nil
}

// CountBySymbol 统计某只股票已入库的记录数
func (b *BarDB) CountBySymbol(symbol string) (int64, error) {
	var count int64
	err := b.db.Model(&model.StockBar{}).Where("symbol = ?", symbol).Count(&count).Error
	return count, err
}
