package cnpja

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"3tcapital/nfe_dados/internal/core/regime"
	"3tcapital/nfe_dados/internal/testutil"
)

const cnpjTeste = "01624149000538"

func respostaOffice(simples, simei bool) string {
	return fmt.Sprintf(`{"company":{"simples":{"optant":%t},"simei":{"optant":%t}}}`, simples, simei)
}

func novoClienteTeste(t *testing.T, baseURL string, retry RetryConfig) regime.Classificador {
	t.Helper()
	return NewClient(baseURL, &http.Client{Timeout: 2 * time.Second}, retry, testutil.NewNullLogger())
}

func retryRapido() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 20 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestClassificar_MapeamentoDeRespostas(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   regime.Codigo
	}{
		{"simei vence simples", http.StatusOK, respostaOffice(true, true), regime.CodigoSIMEI},
		{"somente simples", http.StatusOK, respostaOffice(true, false), regime.CodigoSimplesNacional},
		{"nenhum programa", http.StatusOK, respostaOffice(false, false), regime.CodigoRegimeNormal},
		{"flags ausentes no payload", http.StatusOK, `{"company":{}}`, regime.CodigoRegimeNormal},
		{"nao encontrado", http.StatusNotFound, `{"message":"not found"}`, regime.CodigoNaoEncontrado},
		{"erro do servidor", http.StatusInternalServerError, `boom`, regime.CodigoErroAPI},
		{"json invalido", http.StatusOK, `{{{`, regime.CodigoErroInesperado},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/office/"+cnpjTeste {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			cliente := novoClienteTeste(t, srv.URL, retryRapido())
			got := cliente.Classificar(context.Background(), cnpjTeste)
			if got.Codigo != tt.want {
				t.Errorf("Classificar() = %s, want %s", got.Codigo, tt.want)
			}
		})
	}
}

func TestClassificar_ErroAPICarregaStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cliente := novoClienteTeste(t, srv.URL, retryRapido())
	got := cliente.Classificar(context.Background(), cnpjTeste)
	if got.Codigo != regime.CodigoErroAPI || got.StatusHTTP != http.StatusBadGateway {
		t.Errorf("Classificar() = %+v, want erro_api with status 502", got)
	}
}

func TestClassificar_CNPJInvalidoNaoConsultaRede(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chamadas.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cliente := novoClienteTeste(t, srv.URL, retryRapido())

	tests := []string{"", "123", "1234567890123456", "abc.def/ghi-jk"}
	for _, cnpj := range tests {
		got := cliente.Classificar(context.Background(), cnpj)
		if got.Codigo != regime.CodigoCNPJInvalido {
			t.Errorf("Classificar(%q) = %s, want cnpj_invalido", cnpj, got.Codigo)
		}
	}

	if chamadas.Load() != 0 {
		t.Errorf("expected no HTTP calls for invalid CNPJs, got %d", chamadas.Load())
	}
}

func TestClassificar_AceitaCNPJFormatado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/office/"+cnpjTeste {
			t.Errorf("formatting was not stripped, path %q", r.URL.Path)
		}
		fmt.Fprint(w, respostaOffice(false, false))
	}))
	defer srv.Close()

	cliente := novoClienteTeste(t, srv.URL, retryRapido())
	got := cliente.Classificar(context.Background(), "01.624.149/0005-38")
	if got.Codigo != regime.CodigoRegimeNormal {
		t.Errorf("Classificar() = %s, want regime_normal", got.Codigo)
	}
}

func TestClassificar_RetryApos429(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if chamadas.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, respostaOffice(false, true))
	}))
	defer srv.Close()

	retry := retryRapido()
	cliente := novoClienteTeste(t, srv.URL, retry)

	inicio := time.Now()
	got := cliente.Classificar(context.Background(), cnpjTeste)
	decorrido := time.Since(inicio)

	if got.Codigo != regime.CodigoSIMEI {
		t.Errorf("Classificar() = %s, want simei after retry", got.Codigo)
	}
	if chamadas.Load() != 2 {
		t.Errorf("expected 2 HTTP calls, got %d", chamadas.Load())
	}
	if decorrido < retry.InitialBackoff {
		t.Errorf("expected at least one backoff of %s, elapsed %s", retry.InitialBackoff, decorrido)
	}
}

func TestClassificar_EsgotaTentativas(t *testing.T) {
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chamadas.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	retry := retryRapido()
	cliente := novoClienteTeste(t, srv.URL, retry)
	got := cliente.Classificar(context.Background(), cnpjTeste)

	if got.Codigo != regime.CodigoLimiteTentativas {
		t.Errorf("Classificar() = %s, want limite_tentativas", got.Codigo)
	}
	if int(chamadas.Load()) != retry.MaxAttempts {
		t.Errorf("expected %d HTTP calls, got %d", retry.MaxAttempts, chamadas.Load())
	}
}

func TestClassificar_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, respostaOffice(false, false))
	}))
	defer srv.Close()

	cliente := NewClient(srv.URL, &http.Client{Timeout: 20 * time.Millisecond}, retryRapido(), testutil.NewNullLogger())
	got := cliente.Classificar(context.Background(), cnpjTeste)
	if got.Codigo != regime.CodigoTimeout {
		t.Errorf("Classificar() = %s, want timeout", got.Codigo)
	}
}

func TestClassificar_ErroDeConexao(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing listening anymore

	cliente := novoClienteTeste(t, srv.URL, retryRapido())
	got := cliente.Classificar(context.Background(), cnpjTeste)
	if got.Codigo != regime.CodigoErroConexao {
		t.Errorf("Classificar() = %s, want erro_conexao", got.Codigo)
	}
}
