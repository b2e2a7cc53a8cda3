package services

import "context"

// Provider is a dependency the engine needs to serve reports
type Provider interface {
	// Type returns the dependency kind, e.g. "postgres"
	Type() string

	// HealthCheck reports whether the dependency is reachable and usable
	HealthCheck(ctx context.Context) error
}

// BaseProvider provides common functionality for providers
type BaseProvider struct {
	serviceType string
}

// Type returns the service type
func (p *BaseProvider) Type() string {
	return p.serviceType
}
