package export

import (
	"fmt"
	"time"

	corelote "3tcapital/nfe_dados/internal/core/lote"
)

// Opcoes controls optional output columns.
type Opcoes struct {
	// IncluirCodigoDV keeps the numeric-code and check-digit columns.
	IncluirCodigoDV bool
}

// Colunas returns the header row in the fixed output order.
func Colunas(opcoes Opcoes) []string {
	colunas := []string{
		"Chave de Acesso", "UF", "Ano/Mês Emissão", "CNPJ Emitente",
		"Modelo Doc.", "Série", "Número NF-e", "Tipo Emissão",
	}
	if opcoes.IncluirCodigoDV {
		colunas = append(colunas, "Código Numérico", "Dígito Verificador")
	}
	return append(colunas, "Regime Tributário")
}

// valores renders one row in the same order as Colunas.
func valores(l corelote.Linha, opcoes Opcoes) []string {
	celulas := []string{
		l.ChaveAcesso, l.UF, l.AnoMesEmissao, l.CNPJEmitente,
		l.Modelo, l.Serie, l.Numero, l.TipoEmissao,
	}
	if opcoes.IncluirCodigoDV {
		celulas = append(celulas, l.CodigoNumerico, l.DV)
	}
	return append(celulas, l.RegimeTributario)
}

// NomeArquivo builds the timestamped download filename,
// e.g. "dados_nfe_20250101_153000.xlsx".
func NomeArquivo(extensao string, agora time.Time) string {
	return fmt.Sprintf("dados_nfe_%s.%s", agora.Format("20060102_150405"), extensao)
}
