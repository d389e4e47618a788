// Package metrics exports sale engine activity to Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"pos_sales/internal/sales"
)

// Collector turns engine events into Prometheus series.
type Collector struct {
	committed      prometheus.Counter
	deleted        prometheus.Counter
	itemsSold      prometheus.Counter
	itemsRestored  prometheus.Counter
	revenue        prometheus.Counter
	commitFailures *prometheus.CounterVec
}

// NewCollector registers the sale series on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "committed_total",
			Help: "Sales committed.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "deleted_total",
			Help: "Sales deleted and restored to stock.",
		}),
		itemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "items_sold_total",
			Help: "Units taken out of stock by committed sales.",
		}),
		itemsRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "items_restored_total",
			Help: "Units put back into stock by deleted sales.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "revenue_total",
			Help: "Sum of committed sale totals.",
		}),
		commitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos", Subsystem: "sales", Name: "commit_failures_total",
			Help: "Rejected or failed commits by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(c.committed, c.deleted, c.itemsSold, c.itemsRestored, c.revenue, c.commitFailures)
	return c
}

// Observe is a sales.Listener.
func (c *Collector) Observe(e sales.Event) {
	switch e.Kind {
	case sales.EventSaleCommitted:
		c.committed.Inc()
		c.itemsSold.Add(float64(e.Items))
		c.revenue.Add(e.Total.InexactFloat64())
	case sales.EventSaleDeleted:
		c.deleted.Inc()
		c.itemsRestored.Add(float64(e.Items))
	case sales.EventCommitFailed:
		c.commitFailures.WithLabelValues(Reason(e.Err)).Inc()
	}
}

// Reason maps a commit error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, sales.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, sales.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, sales.ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}
