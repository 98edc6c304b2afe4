package authz

import (
	"go.uber.org/zap"
)

// Guard is the call point used by middleware and services. It evaluates
// predicates with CheckRequest/CheckObject and reports every decision to
// metrics and the debug log.
type Guard struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewGuard creates a Guard. Both arguments may be nil.
func NewGuard(metrics *Metrics, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{metrics: metrics, logger: logger}
}

// CheckRequest runs the request-level check before dispatch.
func (g *Guard) CheckRequest(p Predicate, req Request) error {
	err := CheckRequest(p, req)
	g.observe(LevelRequest, p, req, err)
	return err
}

// CheckObject runs the object-level check after the resource has been loaded.
func (g *Guard) CheckObject(p Predicate, req Request, res Resource) error {
	err := CheckObject(p, req, res)
	g.observe(LevelObject, p, req, err)
	return err
}

func (g *Guard) observe(level Level, p Predicate, req Request, err error) {
	name := "nil"
	if p != nil {
		name = p.Name()
	}
	g.metrics.RecordDecision(level, name, err == nil)
	if err != nil {
		g.logger.Debug("authorization denied",
			zap.String("level", string(level)),
			zap.String("predicate", name),
			zap.String("method", req.Method),
			zap.Stringer("principal", req.Principal))
	}
}
