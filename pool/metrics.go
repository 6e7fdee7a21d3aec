package pool

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pool module
type Metrics struct {
	// Swap metrics
	SwapsTotal  *prometheus.CounterVec
	SwapVolume  *prometheus.CounterVec
	SwapLatency prometheus.Histogram

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	Reserves         *prometheus.GaugeVec
	ShareSupply      prometheus.Gauge

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers pool metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"token_in", "token_out", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"denom"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity deposited in base units",
				},
				[]string{"denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity withdrawn in base units",
				},
				[]string{"denom"},
			),
			Reserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "reserves",
					Help:      "Current pool reserves in base units",
				},
				[]string{"denom"},
			),
			ShareSupply: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "share_supply",
					Help:      "Current liquidity share supply",
				},
			),
			OperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "operations_total",
					Help:      "Total pool operations by type and status",
				},
				[]string{"op", "status"},
			),
			OperationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "pairpool",
					Subsystem: "pool",
					Name:      "operation_duration_seconds",
					Help:      "Pool operation latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"op"},
			),
		}
	})
	return metrics
}

// recordOperation tracks one completed operation. Safe to call with a nil
// receiver when metrics are disabled.
func (m *Metrics) recordOperation(op, status string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(op, status).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(seconds)
}

// recordLiquidityFlow adds one committed liquidity movement to vec, one
// sample per denom. Safe to call with a nil receiver.
func (m *Metrics) recordLiquidityFlow(vec *prometheus.CounterVec, denom0, denom1 string, amount0, amount1 math.Int) {
	if m == nil {
		return
	}
	vec.WithLabelValues(denom0).Add(gaugeValue(amount0))
	vec.WithLabelValues(denom1).Add(gaugeValue(amount1))
}

// recordReserves updates the reserve and supply gauges. Values beyond float64
// precision are clamped by the conversion; the gauges are operational
// telemetry, not accounting state.
func (m *Metrics) recordReserves(denom0, denom1 string, reserve0, reserve1, supply float64) {
	if m == nil {
		return
	}
	m.Reserves.WithLabelValues(denom0).Set(reserve0)
	m.Reserves.WithLabelValues(denom1).Set(reserve1)
	m.ShareSupply.Set(supply)
}

// gaugeValue converts an amount for gauge export. Amounts past float64
// precision lose digits here, which is acceptable for telemetry.
func gaugeValue(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}
