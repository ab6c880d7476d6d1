package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/config"
	"github.com/EquorumProtocol/equorum-gov/internal/gov"
	"github.com/EquorumProtocol/equorum-gov/internal/store"
	"github.com/EquorumProtocol/equorum-gov/internal/timelock"
	"github.com/EquorumProtocol/equorum-gov/internal/token"
)

// Runtime is the reconstructed system a command operates on: the journal,
// the engine replayed from it, and the development token ledger.
type Runtime struct {
	Store  *store.Store
	Engine *gov.Engine
	Ledger *token.MemoryLedger
	Params config.Params

	router *timelock.Router
	clock  *store.ReplayClock
}

// OpenRuntime opens the journal, replays it through a fresh engine, and
// switches the clock to wall time. The caller must Close the runtime.
func OpenRuntime(ctx context.Context, opts *RootOptions) (*Runtime, error) {
	params := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		params = loaded
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}

	clock := store.NewReplayClock()
	ledger := token.NewMemoryLedger()
	router := timelock.NewRouter()

	tl, err := timelock.New(params.Governor, params.TimelockDelay, params.GracePeriod, clock, router)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to build timelock", err)
	}
	engine, err := gov.NewEngine(params, ledger, tl, clock, nil)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to build engine", err)
	}

	rt := &Runtime{
		Store:  st,
		Engine: engine,
		Ledger: ledger,
		Params: params,
		router: router,
		clock:  clock,
	}

	ops, err := st.ReadAll(ctx)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	// Proposal actions target arbitrary addresses; give each one a
	// handler before its execute record replays.
	for _, op := range ops {
		if op.Kind == store.KindPropose {
			var p store.ProposePayload
			if err := json.Unmarshal(op.Payload, &p); err != nil {
				st.Close()
				return nil, WrapExitError(ExitCommandError, "corrupt propose record", err)
			}
			for _, target := range p.Targets {
				rt.RegisterTarget(common.HexToAddress(target))
			}
		}
	}

	if err := store.Replay(ctx, ops, engine, ledger, clock); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "journal replay failed", err)
	}
	clock.GoLive()

	return rt, nil
}

// Close releases the journal.
func (rt *Runtime) Close() error {
	return rt.Store.Close()
}

// RegisterTarget installs a logging no-op handler for an action target. The
// development CLI has no real contracts to call; the handler makes the
// timelock crossing observable without doing anything.
func (rt *Runtime) RegisterTarget(target common.Address) {
	rt.router.Register(target, func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error) {
		return nil, nil
	})
}

// Record journals an operation that the engine already applied. The receipt
// id makes re-appends idempotent should a retry race the first write.
func (rt *Runtime) Record(ctx context.Context, kind string, caller common.Address, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode operation", err)
	}
	op := store.Operation{
		ReceiptID: uuid.Must(uuid.NewV7()).String(),
		Kind:      kind,
		Caller:    caller,
		Payload:   raw,
		Time:      rt.clock.Now(),
	}
	if _, err := rt.Store.Append(ctx, op); err != nil {
		return WrapExitError(ExitCommandError, "failed to journal operation", err)
	}
	return nil
}

// ParseAddress parses and validates a 0x-prefixed account address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseWholeTokens parses a whole-token decimal string into base units.
func ParseWholeTokens(s string) (*uint256.Int, error) {
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid token amount %q: %w", s, err)
	}
	amount, overflow := new(uint256.Int).MulOverflow(n, gov.Scale)
	if overflow {
		return nil, fmt.Errorf("token amount %q overflows", s)
	}
	return amount, nil
}

// EngineError converts an engine rejection into formatter output plus an
// ExitRejected error, leaving command errors untouched.
func EngineError(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	code := "REJECTED"
	if c := gov.ErrCode(err); c != "" {
		code = string(c)
	} else if tc := timelockCode(err); tc != "" {
		code = tc
	}
	_ = f.Error(code, err.Error(), nil)
	return NewExitError(ExitRejected, err.Error())
}

func timelockCode(err error) string {
	var te *timelock.Error
	if errors.As(err, &te) {
		return string(te.Code)
	}
	return ""
}
