package testutil

import (
	"context"
	"sync"

	"github.com/roadwatch/roadwatch/internal/model"
)

// StubProvider serves accidents from a map. Missing ids return (nil, nil),
// which callers treat as "not loaded yet".
type StubProvider struct {
	mu        sync.Mutex
	accidents map[string]*model.Accident
	Err       error
	calls     int
}

// NewStubProvider creates a provider seeded with accidents
func NewStubProvider(accidents ...*model.Accident) *StubProvider {
	p := &StubProvider{accidents: make(map[string]*model.Accident)}
	for _, a := range accidents {
		p.accidents[a.ID] = a
	}
	return p
}

// Put adds or replaces an accident
func (p *StubProvider) Put(a *model.Accident) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accidents[a.ID] = a
}

// Get implements accident.Provider
func (p *StubProvider) Get(ctx context.Context, id string) (*model.Accident, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.accidents[id], nil
}

// Calls returns the number of Get calls
func (p *StubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// SampleAccident returns a fully populated accident record
func SampleAccident(id string) *model.Accident {
	return &model.Accident{
		ID:                   id,
		Address:              "12 Main St",
		City:                 "Delhi",
		Latitude:             "28.7",
		Longitude:            "77.1",
		Severity:             "high",
		SeverityInPercentage: "87.5",
		Date:                 "2025-04-02 10:15:00",
	}
}
