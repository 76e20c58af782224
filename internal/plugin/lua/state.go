package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
)

// DefaultExecutionTimeout bounds a single command run.
const DefaultExecutionTimeout = time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes every
// use of it, including command runs.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	log     zerolog.Logger
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for one command run. Non-positive
// values disable it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithLogger sets the logger used by failed runs and editor.log.
func WithLogger(l zerolog.Logger) StateOption {
	return func(s *State) {
		s.log = l
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		timeout: DefaultExecutionTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	installSandbox(L)
	state.L = L
	return state, nil
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.doWithRecovery(func() error {
		return s.L.DoString(code)
	})
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Command compiles script into a command. The script must evaluate to a
// function.
func (s *State) Command(script string) (dispatcher.CommandFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	var fn *lua.LFunction
	err := s.doWithRecovery(func() error {
		chunk, err := s.L.LoadString(script)
		if err != nil {
			return err
		}
		s.L.Push(chunk)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret := s.L.Get(-1)
		s.L.Pop(1)
		f, ok := ret.(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%w: got %s", ErrNotFunction, ret.Type())
		}
		fn = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return func(st *document.State) *document.State {
		return s.run(fn, st)
	}, nil
}

func (s *State) run(fn *lua.LFunction, st *document.State) *document.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Debug().Msg("lua command after close")
		return st
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	ed := &editor{state: st, log: s.log}
	top := s.L.GetTop()
	err := s.doWithRecovery(func() error {
		s.L.Push(fn)
		s.L.Push(ed.table(s.L))
		return s.L.PCall(1, 0, nil)
	})
	s.L.SetTop(top)
	if err != nil {
		s.log.Warn().Err(err).Msg("lua command failed")
		return st
	}
	return ed.state
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Commands compiled from it become no-ops.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
