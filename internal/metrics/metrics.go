// Package metrics 발송 라운드에 대한 Prometheus 계측 지표를 제공합니다.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// deliveriesTotal 채널별 발송 시도 결과 카운터
	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notify",
		Name:      "deliveries_total",
		Help:      "Total number of per-channel delivery attempts by result.",
	}, []string{"channel", "result"})

	// dispatchDuration 발송 라운드 전체 소요 시간 히스토그램
	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "notify",
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of a full dispatch round across all channels.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// ObserveDelivery 채널 하나의 발송 결과를 기록합니다.
func ObserveDelivery(channel string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	deliveriesTotal.WithLabelValues(channel, result).Inc()
}

// ObserveDispatch 발송 라운드 전체의 소요 시간을 기록합니다.
func ObserveDispatch(elapsed time.Duration) {
	dispatchDuration.Observe(elapsed.Seconds())
}
