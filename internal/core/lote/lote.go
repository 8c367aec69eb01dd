package lote

import "time"

// Linha is one processed access key with every output column already
// rendered. Rows for malformed keys carry the invalid-key sentinel in
// every field except the original key itself.
type Linha struct {
	ChaveAcesso      string `json:"chaveAcesso"`
	UF               string `json:"uf"`
	AnoMesEmissao    string `json:"anoMesEmissao"`
	CNPJEmitente     string `json:"cnpjEmitente"`
	Modelo           string `json:"modeloDoc"`
	Serie            string `json:"serie"`
	Numero           string `json:"numeroNFe"`
	TipoEmissao      string `json:"tipoEmissao"`
	CodigoNumerico   string `json:"codigoNumerico"`
	DV               string `json:"digitoVerificador"`
	RegimeTributario string `json:"regimeTributario"`
}

// Resultado is the outcome of one batch run. Linhas preserves the
// input order, one row per input line.
type Resultado struct {
	ID          string    `json:"id"`
	Linhas      []Linha   `json:"linhas"`
	Total       int       `json:"total"`
	Validas     int       `json:"validas"`
	Invalidas   int       `json:"invalidas"`
	IniciadoEm  time.Time `json:"iniciadoEm"`
	ConcluidoEm time.Time `json:"concluidoEm"`
}

// Progresso is the advisory telemetry emitted after each processed item.
type Progresso struct {
	Fracao          float64   `json:"fracao"`
	Restantes       int       `json:"restantes"`
	PrevisaoTermino time.Time `json:"previsaoTermino"`
	Indice          int       `json:"indice"`
	Chave           string    `json:"chave"`
}

// ProgressoFunc receives progress updates; a nil func disables reporting.
type ProgressoFunc func(Progresso)
