package metrics

import "github.com/prometheus/client_golang/prometheus"

const codecMetricSubsystem = "codec"

var (
	// CodecOperations 统计 pack/unpack 调用次数，status 区分成功、带告警成功与失败。
	CodecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: binpackNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "operations_total",
			Help:      "pack/unpack 调用次数",
		}, []string{opLabelName, statusLabelName})

	// CodecBytes 记录单次调用产出（pack）或消费（unpack）的字节数。
	CodecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: binpackNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "bytes",
			Help:      "单次 pack 产出或 unpack 消费的字节数",
			Buckets:   sizeBuckets,
		}, []string{opLabelName})

	CodecWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: binpackNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "warnings_total",
			Help:      "编解码过程中产生的可恢复告警次数",
		}, []string{opLabelName, codeLabelName})

	ProgramCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: binpackNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "program_cache_requests_total",
			Help:      "格式串编译缓存的访问次数",
		}, []string{resultLabelName})

	ProgramCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: binpackNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "program_cache_entries",
			Help:      "格式串编译缓存中的条目数",
		})
)
