package observe

import (
	"context"
	"log"
	"time"
)

// emitTimeout is the max time allowed for a single async emit. Used by EmitAsync and by ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the HTTP server drains
// before shutting down OTel providers, so in-flight async emits have time to
// complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not blocked.
// Use from message and request handlers for fire-and-forget, best-effort events; errors are logged.
//
// emitter may be nil; EmitAsync then returns immediately without starting a goroutine.
// The goroutine uses context.Background() with emitTimeout so connection teardown does not abort an in-flight emit.
func EmitAsync(emitter EventEmitter, event Event) {
	if emitter == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Printf("observe: async emit failed: %v", err)
		}
	}()
}
