package lote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"3tcapital/nfe_dados/internal/core/chave"
	corelote "3tcapital/nfe_dados/internal/core/lote"
	"3tcapital/nfe_dados/internal/core/regime"
)

// ErrLoteVazio is returned when no key was supplied.
var ErrLoteVazio = errors.New("nenhuma chave de acesso informada")

// ErrLoteExcedido reports how far the input exceeded the batch cap.
type ErrLoteExcedido struct {
	Recebidas int
	Limite    int
}

func (e *ErrLoteExcedido) Error() string {
	return fmt.Sprintf("lote com %d chaves excede o limite de %d", e.Recebidas, e.Limite)
}

// Config holds the orchestration knobs.
type Config struct {
	LimiteChaves int           // maximum keys per batch
	Intervalo    time.Duration // minimum spacing between classification call starts
}

// Service orchestrates one batch run: decode each key, consult the
// classifier under the pacing policy, accumulate rows in input order.
type Service struct {
	classificador regime.Classificador
	cfg           Config
	log           *slog.Logger
	fuso          *time.Location
}

// NewService builds the orchestrator. The ETA in progress updates is
// reported in São Paulo civil time, falling back to a fixed -03 offset
// on hosts without tzdata.
func NewService(classificador regime.Classificador, cfg Config, log *slog.Logger) *Service {
	if cfg.LimiteChaves <= 0 {
		cfg.LimiteChaves = 400
	}
	if cfg.Intervalo < 0 {
		cfg.Intervalo = 0
	}

	fuso, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		fuso = time.FixedZone("-03", -3*60*60)
	}

	return &Service{
		classificador: classificador,
		cfg:           cfg,
		log:           log,
		fuso:          fuso,
	}
}

// SepararLinhas splits raw pasted text into trimmed non-blank lines.
func SepararLinhas(texto string) []string {
	var linhas []string
	for _, linha := range strings.Split(texto, "\n") {
		linha = strings.TrimSpace(linha)
		if linha != "" {
			linhas = append(linhas, linha)
		}
	}
	return linhas
}

// Processar runs one batch. Empty input and a batch above the cap are
// the only terminal errors and are reported before any classification
// call; everything that goes wrong per row lands in the row itself.
// The returned rows match the input order exactly.
func (s *Service) Processar(ctx context.Context, linhas []string, progresso corelote.ProgressoFunc) (*corelote.Resultado, error) {
	if len(linhas) == 0 {
		return nil, ErrLoteVazio
	}
	if len(linhas) > s.cfg.LimiteChaves {
		return nil, &ErrLoteExcedido{Recebidas: len(linhas), Limite: s.cfg.LimiteChaves}
	}

	inicio := time.Now()
	resultado := &corelote.Resultado{
		ID:         uuid.NewString(),
		IniciadoEm: inicio,
		Total:      len(linhas),
		Linhas:     make([]corelote.Linha, 0, len(linhas)),
	}

	s.log.Info("iniciando processamento do lote",
		"lote_id", resultado.ID,
		"chaves", len(linhas),
		"intervalo", s.cfg.Intervalo.String())

	consultas := 0
	for i, linha := range linhas {
		decodificada, ok := chave.Decodificar(linha)
		if !ok {
			resultado.Invalidas++
			resultado.Linhas = append(resultado.Linhas, linhaInvalida(linha))
			s.log.Warn("chave de acesso inválida", "lote_id", resultado.ID, "indice", i, "chave", linha)
			s.notificar(progresso, inicio, i, len(linhas), linha)
			continue
		}

		// Spacing is measured from the batch start, not from the end of
		// the previous call: a slow call or a retry that already burned
		// the interval must not add an extra sleep.
		if err := s.aguardarVez(ctx, inicio, consultas); err != nil {
			return nil, err
		}
		consultas++

		// The raw CNPJ comes straight from the key substring so the
		// client never has to re-strip formatting.
		classificacao := s.classificador.Classificar(ctx, decodificada.CNPJEmitente)

		resultado.Validas++
		resultado.Linhas = append(resultado.Linhas, corelote.Linha{
			ChaveAcesso:      linha,
			UF:               decodificada.UF(),
			AnoMesEmissao:    decodificada.AnoMesEmissao(),
			CNPJEmitente:     decodificada.CNPJFormatado(),
			Modelo:           decodificada.Modelo,
			Serie:            decodificada.Serie,
			Numero:           decodificada.Numero,
			TipoEmissao:      decodificada.TipoEmissaoDescricao(),
			CodigoNumerico:   decodificada.CodigoNumerico,
			DV:               decodificada.DV,
			RegimeTributario: classificacao.Descricao(),
		})
		s.notificar(progresso, inicio, i, len(linhas), linha)
	}

	resultado.ConcluidoEm = time.Now()
	s.log.Info("lote concluído",
		"lote_id", resultado.ID,
		"total", resultado.Total,
		"validas", resultado.Validas,
		"invalidas", resultado.Invalidas,
		"duracao", resultado.ConcluidoEm.Sub(inicio).String())
	return resultado, nil
}

// aguardarVez sleeps until the target start time of classification call
// number consulta: inicio + consulta×intervalo. The first call goes out
// immediately, and calls already past their slot wait nothing.
func (s *Service) aguardarVez(ctx context.Context, inicio time.Time, consulta int) error {
	if consulta == 0 || s.cfg.Intervalo <= 0 {
		return nil
	}

	alvo := inicio.Add(time.Duration(consulta) * s.cfg.Intervalo)
	espera := time.Until(alvo)
	if espera <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(espera):
		return nil
	}
}

// notificar emits one progress update. The ETA uses the observed average
// per item, floored at the pacing interval since no future item can
// finish faster than its slot.
func (s *Service) notificar(fn corelote.ProgressoFunc, inicio time.Time, indice, total int, chaveAtual string) {
	if fn == nil {
		return
	}

	concluidos := indice + 1
	restantes := total - concluidos
	mediaPorItem := time.Since(inicio) / time.Duration(concluidos)
	if mediaPorItem < s.cfg.Intervalo {
		mediaPorItem = s.cfg.Intervalo
	}

	fn(corelote.Progresso{
		Fracao:          float64(concluidos) / float64(total),
		Restantes:       restantes,
		PrevisaoTermino: time.Now().In(s.fuso).Add(time.Duration(restantes) * mediaPorItem),
		Indice:          indice,
		Chave:           chaveAtual,
	})
}

func linhaInvalida(chaveOriginal string) corelote.Linha {
	return corelote.Linha{
		ChaveAcesso:      chaveOriginal,
		UF:               chave.ChaveInvalida,
		AnoMesEmissao:    chave.ChaveInvalida,
		CNPJEmitente:     chave.ChaveInvalida,
		Modelo:           chave.ChaveInvalida,
		Serie:            chave.ChaveInvalida,
		Numero:           chave.ChaveInvalida,
		TipoEmissao:      chave.ChaveInvalida,
		CodigoNumerico:   chave.ChaveInvalida,
		DV:               chave.ChaveInvalida,
		RegimeTributario: chave.ChaveInvalida,
	}
}
