package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	corelote "3tcapital/nfe_dados/internal/core/lote"
)

// NomePlanilha is the single sheet written to the workbook.
const NomePlanilha = "Dados NFe"

// EscreverXLSX writes the batch as a single-sheet xlsx workbook:
// header row followed by one row per processed key.
func EscreverXLSX(w io.Writer, linhas []corelote.Linha, opcoes Opcoes) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(NomePlanilha)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	escrever := func(numero int, celulas []string) error {
		celula, err := excelize.CoordinatesToCellName(1, numero)
		if err != nil {
			return err
		}
		return f.SetSheetRow(NomePlanilha, celula, &celulas)
	}

	if err := escrever(1, Colunas(opcoes)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, linha := range linhas {
		if err := escrever(i+2, valores(linha, opcoes)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
