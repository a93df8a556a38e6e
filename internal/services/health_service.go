package services

import (
	"context"
	"sort"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function (e.g. a mongo client ping) to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthReport struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks"`
}

type HealthService interface {
	Check(ctx context.Context) HealthReport
}

type healthService struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func NewHealthService(deps map[string]Pinger, timeout time.Duration) HealthService {
	return &healthService{deps: deps, timeout: timeout}
}

func (s *healthService) Check(ctx context.Context) HealthReport {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	names := make([]string, 0, len(s.deps))
	for n := range s.deps {
		names = append(names, n)
	}
	sort.Strings(names)

	rep := HealthReport{OK: true, Checks: make(map[string]string, len(names))}
	for _, n := range names {
		if err := s.deps[n].Ping(ctx); err != nil {
			rep.OK = false
			rep.Checks[n] = err.Error()
			continue
		}
		rep.Checks[n] = "ok"
	}
	return rep
}
