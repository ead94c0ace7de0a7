package dashboard

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"trading-dashboard/internal/chart"
	"trading-dashboard/internal/types"
)

const (
	performanceDays  = 30
	performanceStart = 50000.0
)

type Performance struct {
	Points        []types.PerformancePoint `json:"points"`
	StartValue    float64                  `json:"start_value"`
	EndValue      float64                  `json:"end_value"`
	Change        float64                  `json:"change"`
	ChangePercent float64                  `json:"change_percent"`
	Positive      bool                     `json:"positive"`
}

// GeneratePerformance simulates 30 daily values ending yesterday, each
// moving by U(-1.5%, +2.5%) from the previous one.
func GeneratePerformance(rng *rand.Rand, now time.Time) Performance {
	start := now.AddDate(0, 0, -performanceDays)
	points := make([]types.PerformancePoint, 0, performanceDays)
	value := performanceStart
	for i := 0; i < performanceDays; i++ {
		value *= 1 + (rng.Float64()*0.04 - 0.015)
		points = append(points, types.PerformancePoint{Date: start.AddDate(0, 0, i), Value: value})
	}

	p := Performance{
		Points:     points,
		StartValue: points[0].Value,
		EndValue:   points[len(points)-1].Value,
	}
	p.Change = p.EndValue - p.StartValue
	p.ChangePercent = p.Change / p.StartValue * 100
	p.Positive = p.ChangePercent >= 0
	return p
}

// PerformanceWidget generates its series once. Rendered charts are cached
// per theme and size for chartCacheTTL.
type PerformanceWidget struct {
	mu    sync.Mutex
	data  Performance
	cache map[string]*cacheItem
	now   func() time.Time
}

const chartCacheTTL = 5 * time.Minute

type cacheItem struct {
	chartData  []byte
	expiration time.Time
}

func NewPerformanceWidget(rng *rand.Rand, now time.Time) *PerformanceWidget {
	return &PerformanceWidget{
		data:  GeneratePerformance(rng, now),
		cache: make(map[string]*cacheItem),
		now:   time.Now,
	}
}

func (w *PerformanceWidget) Data() Performance {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data
}

func (w *PerformanceWidget) PNG(theme types.Theme, width, height int) ([]byte, error) {
	key := fmt.Sprintf("%s-%dx%d", theme, width, height)
	if img, found := w.cacheGet(key); found {
		return img, nil
	}

	d := w.Data()
	img, err := chart.PerformancePNG(d.Points, d.Positive, theme, width, height)
	if err != nil {
		return nil, err
	}
	w.cacheSet(key, img)
	return img, nil
}

func (w *PerformanceWidget) cacheGet(key string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if item, found := w.cache[key]; found && w.now().Before(item.expiration) {
		return item.chartData, true
	}
	return nil, false
}

func (w *PerformanceWidget) cacheSet(key string, chartData []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache[key] = &cacheItem{chartData: chartData, expiration: w.now().Add(chartCacheTTL)}
}
