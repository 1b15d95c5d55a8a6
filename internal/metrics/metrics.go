// Package metrics объявляет prometheus-метрики приложения.
// Метрики отдаются наружу через endpoint /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoginAttempts считает результаты первого шага входа.
// Метка result принимает значения: success, invalid, locked, not_found.
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "eduadmin_login_attempts_total",
	Help: "Login step one outcomes.",
}, []string{"result"})

// InvoiceRestarts наблюдает число перезапусков транзакции генерации
// номера счёта. Ненулевые значения означают гонку за один номер.
var InvoiceRestarts = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "eduadmin_invoice_tx_restarts",
	Help:    "Invoice number transaction restarts per payment.",
	Buckets: prometheus.LinearBuckets(0, 1, 4),
})
