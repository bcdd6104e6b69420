package memory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide counters for page store activity. Registered once against the
// default registry, shared by all PageStore instances.
var (
	pageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heapdb",
		Subsystem: "pagestore",
		Name:      "cache_hits_total",
		Help:      "Number of page fetches served from the page cache.",
	})

	pageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heapdb",
		Subsystem: "pagestore",
		Name:      "cache_misses_total",
		Help:      "Number of page fetches that went to disk.",
	})

	pageReads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heapdb",
		Subsystem: "pagestore",
		Name:      "page_reads_total",
		Help:      "Number of physical page reads from table files.",
	})

	transactionsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heapdb",
		Subsystem: "pagestore",
		Name:      "transactions_committed_total",
		Help:      "Number of committed transactions.",
	})

	transactionsAborted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heapdb",
		Subsystem: "pagestore",
		Name:      "transactions_aborted_total",
		Help:      "Number of aborted transactions.",
	})
)
