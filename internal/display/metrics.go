package display

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var renders = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchface_renders_total",
	Help: "Number of region redraws, by region.",
}, []string{"region"})
