package timelock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Call describes one external action: a target account, an attached value,
// and either a function signature plus argument payload or a raw payload.
type Call struct {
	Target    common.Address
	Value     *uint256.Int
	Signature string
	Payload   []byte
}

// Input reconstructs the call data handed to the target: the 4-byte
// selector derived from the signature concatenated with the payload, or the
// raw payload when no signature is given.
func (c Call) Input() []byte {
	if c.Signature == "" {
		return c.Payload
	}
	selector := crypto.Keccak256([]byte(c.Signature))[:4]
	return append(selector, c.Payload...)
}

// Invoker is the single polymorphic boundary where the timelock crosses
// into arbitrary external code. Implementations receive the fully
// reconstructed call and return its output.
type Invoker interface {
	Invoke(ctx context.Context, call Call) ([]byte, error)
}

// HandlerFunc handles calls dispatched to one registered target.
// The input already includes the selector when a signature was present.
type HandlerFunc func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error)

// Router dispatches calls to handlers registered per target address.
// It is the in-process stand-in for "call any contract": every crossing is
// logged before the handler runs.
type Router struct {
	mu       sync.Mutex
	handlers map[common.Address]HandlerFunc
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[common.Address]HandlerFunc)}
}

// Register installs the handler for a target, replacing any previous one.
func (r *Router) Register(target common.Address, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[target] = h
}

// Invoke implements Invoker.
func (r *Router) Invoke(ctx context.Context, call Call) ([]byte, error) {
	r.mu.Lock()
	h, ok := r.handlers[call.Target]
	r.mu.Unlock()

	slog.Info("invoking external call",
		"target", call.Target.Hex(),
		"signature", call.Signature,
		"payload_len", len(call.Payload),
	)

	if !ok {
		return nil, fmt.Errorf("no handler registered for target %s", call.Target.Hex())
	}

	value := call.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return h(ctx, value, call.Input())
}
