package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeswitch_cache_hits_total",
		Help: "Total number of analysis cache hits",
	})

	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeswitch_cache_misses_total",
		Help: "Total number of analysis cache misses",
	})

	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codeswitch_cache_evictions_total",
		Help: "Total number of analysis cache evictions",
	})
)
