package regime

import (
	"context"
	"fmt"
)

// Codigo enumerates the possible outcomes of a tax-regime lookup.
type Codigo int

const (
	CodigoSIMEI Codigo = iota
	CodigoSimplesNacional
	CodigoRegimeNormal
	CodigoCNPJInvalido
	CodigoNaoEncontrado
	CodigoErroAPI
	CodigoTimeout
	CodigoErroConexao
	CodigoLimiteTentativas
	CodigoErroInesperado
)

// String returns a stable machine-readable name, used as metric label
// and in structured logs.
func (c Codigo) String() string {
	switch c {
	case CodigoSIMEI:
		return "simei"
	case CodigoSimplesNacional:
		return "simples_nacional"
	case CodigoRegimeNormal:
		return "regime_normal"
	case CodigoCNPJInvalido:
		return "cnpj_invalido"
	case CodigoNaoEncontrado:
		return "nao_encontrado"
	case CodigoErroAPI:
		return "erro_api"
	case CodigoTimeout:
		return "timeout"
	case CodigoErroConexao:
		return "erro_conexao"
	case CodigoLimiteTentativas:
		return "limite_tentativas"
	default:
		return "erro_inesperado"
	}
}

// Classificacao is the outcome of one lookup. StatusHTTP is only
// meaningful for CodigoErroAPI.
type Classificacao struct {
	Codigo     Codigo
	StatusHTTP int
}

// Resultado builds a Classificacao for outcomes without extra context.
func Resultado(codigo Codigo) Classificacao {
	return Classificacao{Codigo: codigo}
}

// ErroAPI builds the outcome for an unexpected HTTP status.
func ErroAPI(status int) Classificacao {
	return Classificacao{Codigo: CodigoErroAPI, StatusHTTP: status}
}

// Sucesso reports whether the lookup reached a definitive regime.
func (c Classificacao) Sucesso() bool {
	switch c.Codigo {
	case CodigoSIMEI, CodigoSimplesNacional, CodigoRegimeNormal:
		return true
	}
	return false
}

// Descricao returns the label rendered in the result table.
func (c Classificacao) Descricao() string {
	switch c.Codigo {
	case CodigoSIMEI:
		return "SIMEI"
	case CodigoSimplesNacional:
		return "Simples Nacional"
	case CodigoRegimeNormal:
		return "Regime Normal / Outros"
	case CodigoCNPJInvalido:
		return "CNPJ Inválido"
	case CodigoNaoEncontrado:
		return "CNPJ Não Encontrado na API"
	case CodigoErroAPI:
		return fmt.Sprintf("Erro na API (%d)", c.StatusHTTP)
	case CodigoTimeout:
		return "Tempo Limite da API Excedido"
	case CodigoErroConexao:
		return "Erro de Conexão com a API"
	case CodigoLimiteTentativas:
		return "Limite de Tentativas Excedido"
	default:
		return "Erro Inesperado"
	}
}

// Classificador consults the tax regime of an issuer CNPJ.
// Implementations return every failure as a Classificacao value:
// lookup problems are data in the final table, never batch-fatal.
type Classificador interface {
	Classificar(ctx context.Context, cnpj string) Classificacao
}
