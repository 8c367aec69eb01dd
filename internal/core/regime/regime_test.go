package regime

import "testing"

func TestClassificacao_Descricao(t *testing.T) {
	tests := []struct {
		name          string
		classificacao Classificacao
		want          string
	}{
		{"simei", Resultado(CodigoSIMEI), "SIMEI"},
		{"simples nacional", Resultado(CodigoSimplesNacional), "Simples Nacional"},
		{"regime normal", Resultado(CodigoRegimeNormal), "Regime Normal / Outros"},
		{"cnpj invalido", Resultado(CodigoCNPJInvalido), "CNPJ Inválido"},
		{"nao encontrado", Resultado(CodigoNaoEncontrado), "CNPJ Não Encontrado na API"},
		{"erro api carrega status", ErroAPI(503), "Erro na API (503)"},
		{"timeout", Resultado(CodigoTimeout), "Tempo Limite da API Excedido"},
		{"erro conexao", Resultado(CodigoErroConexao), "Erro de Conexão com a API"},
		{"limite tentativas", Resultado(CodigoLimiteTentativas), "Limite de Tentativas Excedido"},
		{"erro inesperado", Resultado(CodigoErroInesperado), "Erro Inesperado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.classificacao.Descricao(); got != tt.want {
				t.Errorf("Descricao() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassificacao_Sucesso(t *testing.T) {
	sucessos := []Codigo{CodigoSIMEI, CodigoSimplesNacional, CodigoRegimeNormal}
	for _, codigo := range sucessos {
		if !Resultado(codigo).Sucesso() {
			t.Errorf("expected %s to be a success outcome", codigo)
		}
	}

	falhas := []Codigo{
		CodigoCNPJInvalido, CodigoNaoEncontrado, CodigoErroAPI,
		CodigoTimeout, CodigoErroConexao, CodigoLimiteTentativas, CodigoErroInesperado,
	}
	for _, codigo := range falhas {
		if Resultado(codigo).Sucesso() {
			t.Errorf("expected %s to be a failure outcome", codigo)
		}
	}
}

func TestCodigo_String(t *testing.T) {
	if CodigoSIMEI.String() != "simei" {
		t.Errorf("String() = %q, want %q", CodigoSIMEI.String(), "simei")
	}
	if Codigo(999).String() != "erro_inesperado" {
		t.Errorf("unknown code should stringify as erro_inesperado, got %q", Codigo(999).String())
	}
}
