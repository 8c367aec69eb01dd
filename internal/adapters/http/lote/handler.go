package lote

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"3tcapital/nfe_dados/internal/adapters/export"
	applote "3tcapital/nfe_dados/internal/application/lote"
	corelote "3tcapital/nfe_dados/internal/core/lote"
	httperrors "3tcapital/nfe_dados/internal/infrastructure/http"
	"3tcapital/nfe_dados/internal/infrastructure/metrics"
)

// Handler bridges HTTP traffic with the batch application service.
type Handler struct {
	service *applote.Service
	opcoes  export.Opcoes
	log     *slog.Logger
}

func NewHandler(service *applote.Service, opcoes export.Opcoes, log *slog.Logger) *Handler {
	return &Handler{service: service, opcoes: opcoes, log: log}
}

// processarRequest accepts either pasted newline-separated text or an
// explicit list of lines. When both are present the list wins.
type processarRequest struct {
	Chaves string   `json:"chaves"`
	Linhas []string `json:"linhas"`
}

// Processar runs one batch synchronously and answers with the full
// result table. The route is mounted under the extended timeout: a
// full-size batch holds the connection for the whole paced run.
func (h *Handler) Processar(w http.ResponseWriter, r *http.Request) {
	var req processarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Requisição inválida", []string{"corpo JSON malformado"}, h.log)
		return
	}

	linhas := req.Linhas
	if len(linhas) == 0 {
		linhas = applote.SepararLinhas(req.Chaves)
	}

	resultado, err := h.service.Processar(r.Context(), linhas, h.reportarProgresso)
	if err != nil {
		var excedido *applote.ErrLoteExcedido
		switch {
		case errors.Is(err, applote.ErrLoteVazio):
			metrics.LotesProcessadosTotal.WithLabelValues("vazio").Inc()
			httperrors.WriteError(w, http.StatusBadRequest, "Nenhuma chave informada", []string{err.Error()}, h.log)
		case errors.As(err, &excedido):
			metrics.LotesProcessadosTotal.WithLabelValues("excedido").Inc()
			httperrors.WriteError(w, http.StatusBadRequest, "Limite de chaves excedido", []string{err.Error()}, h.log)
		default:
			metrics.LotesProcessadosTotal.WithLabelValues("erro").Inc()
			httperrors.WriteError(w, http.StatusInternalServerError, "Falha ao processar o lote", []string{err.Error()}, h.log)
		}
		return
	}

	metrics.LotesProcessadosTotal.WithLabelValues("concluido").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resultado)
}

func (h *Handler) reportarProgresso(p corelote.Progresso) {
	metrics.LoteProgresso.Set(p.Fracao)
	h.log.Info("progresso do lote",
		"fracao", p.Fracao,
		"restantes", p.Restantes,
		"previsao_termino", p.PrevisaoTermino.Format(time.RFC3339),
		"indice", p.Indice,
		"chave", p.Chave)
}

// exportarRequest carries previously processed rows back for download.
type exportarRequest struct {
	Linhas []corelote.Linha `json:"linhas"`
}

// Exportar streams the rows as a downloadable file. The format comes
// from the "formato" query parameter: xlsx (default) or csv.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	formato := r.URL.Query().Get("formato")
	if formato == "" {
		formato = "xlsx"
	}
	if formato != "xlsx" && formato != "csv" {
		httperrors.WriteError(w, http.StatusBadRequest, "Formato não suportado", []string{"use formato=xlsx ou formato=csv"}, h.log)
		return
	}

	var req exportarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Requisição inválida", []string{"corpo JSON malformado"}, h.log)
		return
	}
	if len(req.Linhas) == 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Nada para exportar", []string{"nenhuma linha informada"}, h.log)
		return
	}

	nome := export.NomeArquivo(formato, time.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+nome+`"`)

	switch formato {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.EscreverXLSX(w, req.Linhas, h.opcoes); err != nil {
			h.log.Error("falha ao gerar XLSX", "error", err)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := export.EscreverCSV(w, req.Linhas, h.opcoes); err != nil {
			h.log.Error("falha ao gerar CSV", "error", err)
		}
	}
}
