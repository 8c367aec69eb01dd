package cnpja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"3tcapital/nfe_dados/internal/core/regime"
	"3tcapital/nfe_dados/internal/infrastructure/metrics"
)

const (
	// BaseURL is the public CNPJá office endpoint.
	BaseURL = "https://open.cnpja.com"
	// DefaultTimeout bounds a single lookup request.
	DefaultTimeout = 10 * time.Second
)

// RetryConfig bounds the retry loop for HTTP 429 responses. The public
// API throttles aggressively; each 429 is retried after an exponential
// backoff until MaxAttempts is exhausted.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig keeps the original 5s first wait and caps the loop.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     60 * time.Second,
		Multiplier:     2.0,
	}
}

// Client implements regime.Classificador against the CNPJá API.
type Client struct {
	baseURL string
	client  *http.Client
	retry   RetryConfig
	log     *slog.Logger
}

// NewClient creates a new CNPJá HTTP client. Empty/zero arguments fall
// back to the package defaults.
func NewClient(baseURL string, httpClient *http.Client, retry RetryConfig, log *slog.Logger) regime.Classificador {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	if retry.Multiplier <= 1 {
		retry.Multiplier = 2.0
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		retry:   retry,
		log:     log,
	}
}

// officeResponse mirrors the subset of the CNPJá payload the service reads.
type officeResponse struct {
	Company struct {
		Simples struct {
			Optant bool `json:"optant"`
		} `json:"simples"`
		Simei struct {
			Optant bool `json:"optant"`
		} `json:"simei"`
	} `json:"company"`
}

// Classificar consults the tax regime for a CNPJ. Any formatting in the
// input is stripped; anything other than 14 digits short-circuits with
// CNPJInvalido and no network call. All failures come back as
// Classificacao values, never as errors.
func (c *Client) Classificar(ctx context.Context, cnpj string) regime.Classificacao {
	resultado := c.classificar(ctx, cnpj)
	metrics.ClassificacoesTotal.WithLabelValues(resultado.Codigo.String()).Inc()
	return resultado
}

func (c *Client) classificar(ctx context.Context, cnpj string) regime.Classificacao {
	limpo := somenteDigitos(cnpj)
	if len(limpo) != 14 {
		return regime.Resultado(regime.CodigoCNPJInvalido)
	}

	endpoint := fmt.Sprintf("%s/office/%s", c.baseURL, limpo)
	backoff := c.retry.InitialBackoff

	for tentativa := 1; ; tentativa++ {
		classificacao, repetir := c.consultar(ctx, endpoint, limpo)
		if !repetir {
			return classificacao
		}
		if tentativa >= c.retry.MaxAttempts {
			break
		}

		c.log.Warn("CNPJá devolveu 429, aguardando para repetir",
			"cnpj", limpo,
			"tentativa", tentativa,
			"backoff", backoff.String())
		metrics.ClassificacaoRetries.Inc()
		metrics.ClassificacaoBackoffSeconds.Observe(backoff.Seconds())

		select {
		case <-ctx.Done():
			return regime.Resultado(regime.CodigoErroConexao)
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * c.retry.Multiplier)
		if backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}

	c.log.Error("limite de tentativas excedido na CNPJá",
		"cnpj", limpo,
		"tentativas", c.retry.MaxAttempts)
	return regime.Resultado(regime.CodigoLimiteTentativas)
}

// consultar issues one GET. The bool result asks the caller to retry
// (only ever true for HTTP 429).
func (c *Client) consultar(ctx context.Context, endpoint, cnpj string) (regime.Classificacao, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Error("falha ao montar requisição para CNPJá", "cnpj", cnpj, "error", err)
		return regime.Resultado(regime.CodigoErroInesperado), false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("falha de transporte na consulta à CNPJá", "cnpj", cnpj, "error", err)
		return classificarErroTransporte(err), false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return regime.Resultado(regime.CodigoErroConexao), false
		}
		var office officeResponse
		if err := json.Unmarshal(body, &office); err != nil {
			c.log.Warn("resposta da CNPJá não pôde ser interpretada", "cnpj", cnpj, "error", err)
			return regime.Resultado(regime.CodigoErroInesperado), false
		}
		// SIMEI takes precedence: it is the narrower program inside the
		// Simples Nacional.
		switch {
		case office.Company.Simei.Optant:
			return regime.Resultado(regime.CodigoSIMEI), false
		case office.Company.Simples.Optant:
			return regime.Resultado(regime.CodigoSimplesNacional), false
		default:
			return regime.Resultado(regime.CodigoRegimeNormal), false
		}
	case http.StatusTooManyRequests:
		return regime.Classificacao{}, true
	case http.StatusNotFound:
		return regime.Resultado(regime.CodigoNaoEncontrado), false
	default:
		c.log.Warn("CNPJá devolveu status inesperado", "cnpj", cnpj, "status", resp.StatusCode)
		return regime.ErroAPI(resp.StatusCode), false
	}
}

func classificarErroTransporte(err error) regime.Classificacao {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return regime.Resultado(regime.CodigoTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return regime.Resultado(regime.CodigoTimeout)
	}
	return regime.Resultado(regime.CodigoErroConexao)
}

func somenteDigitos(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
