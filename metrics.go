package sipper

import "github.com/prometheus/client_golang/prometheus"

var (
	cyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sipper_cycles_total",
		Help: "Completed acquisition cycles.",
	})
	queryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sipper_query_failures_total",
		Help: "Parameter queries that returned an error or timed out.",
	})
	logWriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sipper_log_write_errors_total",
		Help: "CSV rows that could not be written.",
	})
	watchdogTrips = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sipper_watchdog_trips_total",
		Help: "Times the watchdog found the fast tier stale.",
	})
)

func init() {
	prometheus.MustRegister(cyclesTotal, queryFailures, logWriteErrors, watchdogTrips)
}
