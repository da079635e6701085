package translate

import (
	"go.uber.org/zap"

	"dxw/doctree"
)

// Observer is notified around every handler invocation. It cannot influence
// traversal.
type Observer interface {
	Enter(n *doctree.Node, depth int)
	Exit(n *doctree.Node, depth int)
}

type nopObserver struct{}

func (nopObserver) Enter(*doctree.Node, int) {}
func (nopObserver) Exit(*doctree.Node, int)  {}

type traceObserver struct {
	log *zap.Logger
}

// NewTraceObserver returns observer which logs every visited node at debug level.
func NewTraceObserver(log *zap.Logger) Observer {
	return &traceObserver{log: log.Named("trace")}
}

func (o *traceObserver) Enter(n *doctree.Node, depth int) {
	if ce := o.log.Check(zap.DebugLevel, "Enter"); ce != nil {
		ce.Write(zap.Stringer("kind", n.Kind), zap.String("name", n.Name), zap.Int("depth", depth))
	}
}

func (o *traceObserver) Exit(n *doctree.Node, depth int) {
	if ce := o.log.Check(zap.DebugLevel, "Exit"); ce != nil {
		ce.Write(zap.Stringer("kind", n.Kind), zap.String("name", n.Name), zap.Int("depth", depth))
	}
}
