package testutil

import (
	"context"
	"sync"
	"time"

	"3tcapital/nfe_dados/internal/core/regime"
)

// ClassificadorStub is a scripted regime.Classificador for tests. It
// answers from Respostas in order (the last entry repeats) and records
// every call with its CNPJ and timestamp.
type ClassificadorStub struct {
	mu        sync.Mutex
	Respostas []regime.Classificacao
	Chamadas  []string
	Instantes []time.Time
}

func (s *ClassificadorStub) Classificar(_ context.Context, cnpj string) regime.Classificacao {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Chamadas = append(s.Chamadas, cnpj)
	s.Instantes = append(s.Instantes, time.Now())

	if len(s.Respostas) == 0 {
		return regime.Resultado(regime.CodigoRegimeNormal)
	}
	i := len(s.Chamadas) - 1
	if i >= len(s.Respostas) {
		i = len(s.Respostas) - 1
	}
	return s.Respostas[i]
}

// TotalChamadas returns how many lookups were made.
func (s *ClassificadorStub) TotalChamadas() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Chamadas)
}
