package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence the counters survive restarts in.
type Store interface {
	SaveMetric(metricName string, value float64) error
	GetMetric(metricName string) (float64, error)
	SaveMetricWithLabels(metricName, labelKey, labelValue string, value float64) error
	GetMetricsWithLabels(metricName string) (map[string]map[string]float64, error)
}

type DashboardMetrics struct {
	GatewayRequests  *prometheus.CounterVec
	GatewayFallbacks *prometheus.CounterVec
	PollsApplied     *prometheus.CounterVec
	PollsDiscarded   *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	ChartMounts      prometheus.Counter
	ChartFrames      prometheus.Counter
	Mutex            sync.Mutex
}

func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	m := &DashboardMetrics{
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trading",
				Subsystem: "dashboard",
				Name:      "gateway_requests",
				Help:      "Gateway calls by operation and the source that answered",
			},
			[]string{"operation", "source"},
		),
		GatewayFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trading",
				Subsystem: "dashboard",
				Name:      "gateway_fallbacks",
				Help:      "Gateway calls answered with mock data after a live failure",
			},
			[]string{"operation"},
		),
		PollsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trading",
				Subsystem: "dashboard",
				Name:      "polls_applied",
				Help:      "Widget poll results applied to view state",
			},
			[]string{"widget"},
		),
		PollsDiscarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trading",
				Subsystem: "dashboard",
				Name:      "polls_discarded",
				Help:      "Widget poll results dropped because a newer poll was issued",
			},
			[]string{"widget"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trading",
				Subsystem: "dashboard",
				Name:      "notifications",
				Help:      "Notifications shown by variant",
			},
			[]string{"variant"},
		),
		ChartMounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "dashboard",
			Name:      "chart_mounts",
			Help:      "The total number of chart scene builds",
		}),
		ChartFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: "dashboard",
			Name:      "chart_frames",
			Help:      "The total number of rendered chart frames",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.GatewayRequests, m.GatewayFallbacks, m.PollsApplied, m.PollsDiscarded,
			m.Notifications, m.ChartMounts, m.ChartFrames)
	}
	return m
}

func (m *DashboardMetrics) labeled() map[string]*prometheus.CounterVec {
	return map[string]*prometheus.CounterVec{
		"gateway_requests":  m.GatewayRequests,
		"gateway_fallbacks": m.GatewayFallbacks,
		"polls_applied":     m.PollsApplied,
		"polls_discarded":   m.PollsDiscarded,
		"notifications":     m.Notifications,
	}
}

// LoadFrom adds the persisted counter values onto the current ones.
func (m *DashboardMetrics) LoadFrom(store Store) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	chartMounts, _ := store.GetMetric("chart_mounts")
	chartFrames, _ := store.GetMetric("chart_frames")
	m.ChartMounts.Add(chartMounts)
	m.ChartFrames.Add(chartFrames)

	for name, vec := range m.labeled() {
		rows, err := store.GetMetricsWithLabels(name)
		if err != nil {
			log.Errorf("Failed to load metric %s: %v", name, err)
			continue
		}
		for labelKey, values := range rows {
			labels := decodeLabels(labelKey)
			for _, value := range values {
				c, err := vec.GetMetricWith(labels)
				if err != nil {
					log.Errorf("Failed to restore %s%v: %v", name, labels, err)
					continue
				}
				c.Add(value)
			}
		}
	}

	log.Debug("Metrics loaded from database.")
}

// SaveTo writes the current counter values.
func (m *DashboardMetrics) SaveTo(store Store) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	store.SaveMetric("chart_mounts", GetMetricValue(m.ChartMounts))
	store.SaveMetric("chart_frames", GetMetricValue(m.ChartFrames))

	for name, vec := range m.labeled() {
		metricChan := make(chan prometheus.Metric, 16)
		go func() {
			vec.Collect(metricChan)
			close(metricChan)
		}()

		for metric := range metricChan {
			metricProto := &dto.Metric{}
			if err := metric.Write(metricProto); err != nil {
				log.Errorf("Failed to read %s metric: %v", name, err)
				continue
			}
			store.SaveMetricWithLabels(name, encodeLabels(metricProto.Label), "", metricProto.Counter.GetValue())
		}
	}

	log.Debug("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}

func encodeLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func decodeLabels(key string) prometheus.Labels {
	labels := prometheus.Labels{}
	for _, part := range strings.Split(key, ",") {
		name, value, ok := strings.Cut(part, "=")
		if ok {
			labels[name] = value
		}
	}
	return labels
}
