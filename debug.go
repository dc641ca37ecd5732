package grove

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// frameStats holds per-frame timing. Only populated when Context.Debug is set.
type frameStats struct {
	updateTime time.Duration
	renderTime time.Duration
	sweepTime  time.Duration
	swept      int
	renderable int
}

// debugLog writes frame stats at debug level.
func (s *Scene) debugLog(stats frameStats) {
	if !s.ctx.Debug {
		return
	}
	s.ctx.logger().Debug("frame",
		zap.String("scene", s.id),
		zap.Duration("update", stats.updateTime),
		zap.Duration("render", stats.renderTime),
		zap.Duration("sweep", stats.sweepTime),
		zap.Int("swept", stats.swept),
		zap.Int("renderables", stats.renderable),
	)
}

// violation reports a broken invariant. In debug mode it panics so the
// caller's stack is preserved; otherwise it logs and the caller refuses the
// operation. Always returns false so callers can write `return violation(...)`.
func violation(ctx *Context, format string, args ...any) bool {
	msg := fmt.Sprintf(format, args...)
	if ctx != nil && ctx.Debug {
		panic("grove debug: " + msg)
	}
	ctx.logger().Error("invariant violation", zap.String("detail", msg))
	return false
}

// debugCheckSwept panics in debug mode when a swept entity is used in a tree
// operation.
func debugCheckSwept(e *Entity, op string) {
	if e.swept {
		ctx := e.context()
		if ctx != nil && ctx.Debug {
			panic(fmt.Sprintf("grove debug: %s on swept entity %q (ID %d)", op, e.Tag(), e.ID))
		}
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	ctx := e.context()
	if ctx == nil || !ctx.Debug {
		return
	}
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		ctx.logger().Warn("tree depth exceeds threshold",
			zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth), zap.Uint32("entity", e.ID))
	}
}

// debugCheckChildCount warns if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	ctx := e.context()
	if ctx == nil || !ctx.Debug {
		return
	}
	if len(e.children) > debugMaxChildCount {
		ctx.logger().Warn("child count exceeds threshold",
			zap.Uint32("entity", e.ID), zap.Int("children", len(e.children)), zap.Int("threshold", debugMaxChildCount))
	}
}
