package export

import (
	"encoding/csv"
	"fmt"
	"io"

	corelote "3tcapital/nfe_dados/internal/core/lote"
)

// utf8BOM keeps spreadsheet applications from misreading accented text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EscreverCSV writes the batch as UTF-8 CSV prefixed with a BOM.
func EscreverCSV(w io.Writer, linhas []corelote.Linha, opcoes Opcoes) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Colunas(opcoes)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, linha := range linhas {
		if err := cw.Write(valores(linha, opcoes)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
