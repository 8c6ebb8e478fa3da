// Package metrics defines and registers all custom Prometheus metrics for
// the Bookloop API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookloop"

// BooksCreatedTotal counts newly listed books.
// Label:
//   - condition: the declared book condition (e.g. "GOOD")
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books listed, by condition.",
	},
	[]string{"condition"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// ExchangesCreatedTotal counts exchange proposals.
var ExchangesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exchanges_created_total",
		Help:      "Total number of exchange proposals created.",
	},
)

// BookCacheTotal counts single-book cache lookups.
// Label:
//   - result: "hit" or "miss"
var BookCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_cache_total",
		Help:      "Total number of book cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
