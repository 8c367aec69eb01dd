package chave

import (
	"fmt"
	"strconv"
)

// TamanhoChave is the fixed length of an NF-e (modelo 55) access key.
const TamanhoChave = 44

// Sentinel renderings for fields that cannot be interpreted.
const (
	ChaveInvalida = "Chave Inválida"
	MesInvalido   = "Mês Inválido"
)

// ufPorCodigo maps the two-digit IBGE state code embedded in the key
// to the state abbreviation.
var ufPorCodigo = map[string]string{
	"11": "RO", "12": "AC", "13": "AM", "14": "RR", "15": "PA",
	"16": "AP", "17": "TO", "21": "MA", "22": "PI", "23": "CE",
	"24": "RN", "25": "PB", "26": "PE", "27": "AL", "28": "SE",
	"29": "BA", "31": "MG", "32": "ES", "33": "RJ", "35": "SP",
	"41": "PR", "42": "SC", "43": "RS", "50": "MS", "51": "MT",
	"52": "GO", "53": "DF",
}

// tipoEmissaoPorCodigo maps the tpEmis digit to its description.
var tipoEmissaoPorCodigo = map[string]string{
	"1": "Emissão Normal",
	"2": "Contingência FS-IA",
	"3": "Contingência SCAN",
	"4": "Contingência EPEC",
	"5": "Contingência FS-DA",
	"6": "Contingência SVC-AN",
	"7": "Contingência SVC-RS",
	"9": "Contingência Off-line NFC-e",
}

// ChaveDecodificada holds the positional sub-fields of a valid access
// key. Values are raw substrings of the original key; the methods below
// produce the human-readable renderings.
type ChaveDecodificada struct {
	Chave          string
	CodigoUF       string
	AnoMes         string
	CNPJEmitente   string
	Modelo         string
	Serie          string
	Numero         string
	TipoEmissao    string
	CodigoNumerico string
	DV             string
}

// Validar reports whether the string is a well-formed access key:
// exactly 44 characters, all decimal digits. No check-digit
// verification is performed.
func Validar(chave string) bool {
	if len(chave) != TamanhoChave {
		return false
	}
	for _, r := range chave {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Decodificar slices a validated access key into its fixed-offset
// sub-fields. The second return value is false when the key is not
// well-formed; malformed keys are an expected outcome, not an error.
func Decodificar(chave string) (ChaveDecodificada, bool) {
	if !Validar(chave) {
		return ChaveDecodificada{}, false
	}
	return ChaveDecodificada{
		Chave:          chave,
		CodigoUF:       chave[0:2],
		AnoMes:         chave[2:6],
		CNPJEmitente:   chave[6:20],
		Modelo:         chave[20:22],
		Serie:          chave[22:25],
		Numero:         chave[25:34],
		TipoEmissao:    chave[34:35],
		CodigoNumerico: chave[35:43],
		DV:             chave[43:44],
	}, true
}

// UF renders the state code with its abbreviation, e.g. "35 - SP".
// Unknown codes render as "99 - UF desconhecida" instead of failing.
func (c ChaveDecodificada) UF() string {
	if sigla, ok := ufPorCodigo[c.CodigoUF]; ok {
		return c.CodigoUF + " - " + sigla
	}
	return c.CodigoUF + " - UF desconhecida"
}

// AnoMesEmissao renders the emission period as "01/2025". The key
// carries a two-digit year, so the century is fixed at 20YY; keys from
// before 2000 would render wrong, a known limitation of the format.
// A month outside 1-12 yields the MesInvalido marker.
func (c ChaveDecodificada) AnoMesEmissao() string {
	mes, err := strconv.Atoi(c.AnoMes[2:4])
	if err != nil || mes < 1 || mes > 12 {
		return MesInvalido
	}
	return fmt.Sprintf("%s/20%s", c.AnoMes[2:4], c.AnoMes[0:2])
}

// CNPJFormatado renders the issuer CNPJ as "01.624.149/0005-38".
func (c ChaveDecodificada) CNPJFormatado() string {
	cnpj := c.CNPJEmitente
	return fmt.Sprintf("%s.%s.%s/%s-%s", cnpj[0:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:14])
}

// TipoEmissaoDescricao renders the emission type with its description,
// e.g. "1 - Emissão Normal". Unknown codes render as "8 - desconhecido".
func (c ChaveDecodificada) TipoEmissaoDescricao() string {
	if descricao, ok := tipoEmissaoPorCodigo[c.TipoEmissao]; ok {
		return c.TipoEmissao + " - " + descricao
	}
	return c.TipoEmissao + " - desconhecido"
}
