package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apexearn_http_requests_total",
		Help: "HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apexearn_plan_purchases_total",
		Help: "Completed plan purchases",
	})

	CommissionsDistributedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apexearn_commissions_distributed_total",
		Help: "Commission records created by plan purchases",
	})

	CommissionsReleasedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apexearn_commissions_released_total",
		Help: "Held commissions resolved by the admin, by outcome",
	}, []string{"outcome"})

	RequestsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apexearn_requests_processed_total",
		Help: "Deposit/withdrawal requests resolved by the admin",
	}, []string{"type", "outcome"})
)
