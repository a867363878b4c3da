package api

import "github.com/prometheus/client_golang/prometheus"

// Handler serves the artifacts of the last run. It never triggers a run.
type Handler struct {
	feedPath  string
	indexPath string
	version   string
	registry  *prometheus.Registry
}
