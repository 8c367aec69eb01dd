package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the batch pipeline. Registered on the
// default registry and served on /metrics.
var (
	ClassificacoesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfe_classificacoes_total",
		Help: "Resultados de consultas de regime tributário por desfecho",
	}, []string{"desfecho"})

	ClassificacaoRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nfe_classificacao_retries_total",
		Help: "Novas tentativas após resposta 429 da API de classificação",
	})

	ClassificacaoBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nfe_classificacao_backoff_seconds",
		Help:    "Duração das esperas de backoff antes de repetir uma consulta",
		Buckets: []float64{1, 5, 10, 20, 40, 60},
	})

	LoteProgresso = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nfe_lote_progresso",
		Help: "Fração concluída do lote em processamento",
	})

	LotesProcessadosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfe_lotes_processados_total",
		Help: "Lotes processados por resultado",
	}, []string{"resultado"})
)
