package commands

import (
	"sync"
	"time"
)

type CacheItem struct {
	ChartData  []byte
	Caption    string
	Expiration time.Time
}

var (
	chartCache      = make(map[string]*CacheItem)
	chartCacheMutex sync.Mutex
)

func cacheGet(symbol string) (*CacheItem, bool) {
	chartCacheMutex.Lock()
	defer chartCacheMutex.Unlock()

	if item, found := chartCache[symbol]; found && time.Now().Before(item.Expiration) {
		return item, true
	}
	return nil, false
}

func cacheSet(symbol string, chartData []byte, caption string, duration time.Duration) {
	chartCacheMutex.Lock()
	defer chartCacheMutex.Unlock()

	chartCache[symbol] = &CacheItem{
		ChartData:  chartData,
		Caption:    caption,
		Expiration: time.Now().Add(duration),
	}
}
