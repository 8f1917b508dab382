package analytics

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"StockPulse/pkg/model"
)

// fakeBarReader 返回预置的倒序日线列表
type fakeBarReader struct {
	bars     []*model.StockBar
	err      error
	gotLimit int
	gotStart *time.Time
	gotEnd   *time.Time
}

func (f *fakeBarReader) QueryRange(symbol string, startDate, endDate *time.Time, limit int) ([]*model.StockBar, error) {
	f.gotLimit = limit
	f.gotStart = startDate
	f.gotEnd = endDate
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// descendingBars 按时间正序给定行情，构造出按日期倒序的存储返回
func descendingBars(symbol string, opens, closes []*float64, volumes []*int64) []*model.StockBar {
	n := len(closes)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*model.StockBar, 0, n)
	for i := n - 1; i >= 0; i-- {
		bar := &model.StockBar{
			Symbol: symbol,
			Date:   base.AddDate(0, 0, i),
			Close:  closes[i],
		}
		if opens != nil {
			bar.Open = opens[i]
		}
		if volumes != nil {
			bar.Volume = volumes[i]
		}
		bars = append(bars, bar)
	}
	return bars
}

func TestCompute_EmptyWindow(t *testing.T) {
	agg := NewAggregator(&fakeBarReader{})
	_, err := agg.Compute("TEST", 30)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestCompute_WindowBoundsAreCalendarDays(t *testing.T) {
	// 窗口边界必须截断到自然日，否则今天-days当天的记录会被
	// 非零时分的起始时间戳挤出窗口
	reader := &fakeBarReader{bars: descendingBars("TEST", nil, []*float64{fptr(100)}, nil)}

	if _, err := NewAggregator(reader).Compute("TEST", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reader.gotStart == nil || reader.gotEnd == nil {
		t.Fatal("expected both window bounds to be set")
	}

	for name, bound := range map[string]*time.Time{"start": reader.gotStart, "end": reader.gotEnd} {
		if !bound.Equal(bound.Truncate(24 * time.Hour)) {
			t.Errorf("%s bound %v is not a calendar-day boundary", name, bound)
		}
		if bound.Location() != time.UTC {
			t.Errorf("%s bound %v is not UTC", name, bound)
		}
	}

	if got := reader.gotEnd.Sub(*reader.gotStart); got != 30*24*time.Hour {
		t.Errorf("expected 30-day window, got %v", got)
	}
}

func TestCompute_QueryFailure(t *testing.T) {
	agg := NewAggregator(&fakeBarReader{err: fmt.Errorf("db down")})
	_, err := agg.Compute("TEST", 30)
	if err == nil || errors.Is(err, ErrNoData) {
		t.Fatalf("expected query error, got %v", err)
	}
}

func TestCompute_PriceStats(t *testing.T) {
	// 时间正序收盘价 [100, 102, 98, 105]，开盘价与收盘价不同
	opens := []*float64{fptr(99), fptr(101), fptr(99), fptr(103)}
	closes := []*float64{fptr(100), fptr(102), fptr(98), fptr(105)}
	reader := &fakeBarReader{bars: descendingBars("TEST", opens, closes, nil)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRecords != 4 {
		t.Errorf("expected 4 total records, got %d", stats.TotalRecords)
	}
	if stats.DateRange.Start != "2024-03-01" || stats.DateRange.End != "2024-03-04" {
		t.Errorf("unexpected date range: %+v", stats.DateRange)
	}

	p := stats.PriceStats
	if p == nil {
		t.Fatal("expected price stats")
	}
	if p.Current != 105 {
		t.Errorf("expected current 105, got %v", p.Current)
	}
	if p.Opening != 100 {
		t.Errorf("expected opening 100, got %v", p.Opening)
	}
	if p.Highest != 105 {
		t.Errorf("expected highest 105, got %v", p.Highest)
	}
	if p.Lowest != 98 {
		t.Errorf("expected lowest 98, got %v", p.Lowest)
	}
	if p.Average != 101.25 {
		t.Errorf("expected average 101.25, got %v", p.Average)
	}
	if p.Change != 5 {
		t.Errorf("expected change 5, got %v", p.Change)
	}
	if p.ChangePercent != 5.0 {
		t.Errorf("expected change percent 5.0, got %v", p.ChangePercent)
	}
}

func TestCompute_PerformanceStats(t *testing.T) {
	opens := []*float64{fptr(99), fptr(101), fptr(99), fptr(103)}
	closes := []*float64{fptr(100), fptr(102), fptr(98), fptr(105)}
	reader := &fakeBarReader{bars: descendingBars("TEST", opens, closes, nil)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 首日不计入日涨跌幅
	perf := stats.PerformanceStats
	if perf == nil {
		t.Fatal("expected performance stats")
	}
	if perf.PositiveDays != 2 {
		t.Errorf("expected 2 positive days, got %d", perf.PositiveDays)
	}
	if perf.NegativeDays != 1 {
		t.Errorf("expected 1 negative day, got %d", perf.NegativeDays)
	}
	if !approxEqual(perf.PositiveRatio, 66.7, 1e-9) {
		t.Errorf("expected positive ratio 66.7, got %v", perf.PositiveRatio)
	}

	// (0.990099 - 1.010101 + 1.941748) / 3 ≈ 0.64
	if !approxEqual(perf.AvgDailyChange, 0.64, 1e-9) {
		t.Errorf("expected avg daily change 0.64, got %v", perf.AvgDailyChange)
	}
}

func TestCompute_VolumeStatsFloorAverage(t *testing.T) {
	closes := []*float64{fptr(10), fptr(11)}
	volumes := []*int64{iptr(10), iptr(11)}
	reader := &fakeBarReader{bars: descendingBars("TEST", nil, closes, volumes)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := stats.VolumeStats
	if v == nil {
		t.Fatal("expected volume stats")
	}
	// 21/2 向下取整
	if v.Average != 10 {
		t.Errorf("expected average 10, got %d", v.Average)
	}
	if v.Highest != 11 {
		t.Errorf("expected highest 11, got %d", v.Highest)
	}
	if v.Total != 21 {
		t.Errorf("expected total 21, got %d", v.Total)
	}
}

func TestCompute_NullClosesExcluded(t *testing.T) {
	// 收盘价为空的行计入总数但不进价格序列
	closes := []*float64{fptr(100), nil, fptr(105)}
	reader := &fakeBarReader{bars: descendingBars("TEST", nil, closes, nil)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRecords != 3 {
		t.Errorf("expected 3 total records, got %d", stats.TotalRecords)
	}
	if stats.PriceStats == nil {
		t.Fatal("expected price stats")
	}
	if stats.PriceStats.Opening != 100 || stats.PriceStats.Current != 105 {
		t.Errorf("unexpected price stats: %+v", stats.PriceStats)
	}
	if stats.VolumeStats != nil {
		t.Errorf("expected no volume stats without volumes")
	}
}

func TestCompute_OnlyNullCloses(t *testing.T) {
	closes := []*float64{nil, nil}
	reader := &fakeBarReader{bars: descendingBars("TEST", nil, closes, nil)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PriceStats != nil {
		t.Errorf("expected no price stats for all-null closes")
	}
	if stats.TotalRecords != 2 {
		t.Errorf("expected 2 total records, got %d", stats.TotalRecords)
	}
}

func TestCompute_SingleRecord(t *testing.T) {
	closes := []*float64{fptr(50)}
	reader := &fakeBarReader{bars: descendingBars("TEST", nil, closes, nil)}

	stats, err := NewAggregator(reader).Compute("TEST", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := stats.PriceStats
	if p.Change != 0 || p.ChangePercent != 0 {
		t.Errorf("expected zero change for single record, got %+v", p)
	}
	if stats.PerformanceStats != nil {
		t.Errorf("expected no performance stats for single record")
	}
}
