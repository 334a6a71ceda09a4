// Package interp implements the interpreter driver (spec §4.3, C12): the
// fetch-decode-execute loop, step/loop/dictionary budgets, and the embedder
// API (§6) a host drives either synchronously or one step at a time.
//
// Grounded on sentra/internal/vm.EnhancedVM.Run's frame-fetch/instrCount/
// budget-check shape, repurposed from a bytecode instruction pointer to the
// exec.Stack/exec.LoopStack pair driving value.Value dispatch instead of
// opcodes.
package interp

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"pdlvm/internal/dictstack"
	"pdlvm/internal/exec"
	"pdlvm/internal/font"
	"pdlvm/internal/graphics"
	"pdlvm/internal/operator"
	"pdlvm/internal/perrors"
	"pdlvm/internal/scan"
	"pdlvm/internal/value"
)

// Status is the result of a single Step call (spec §6: "returns one of
// {Running, Finished, Error(kind, message)}").
type Status int

const (
	Running Status = iota
	Finished
	Halted
)

// Config bounds the resources a run may consume (spec §5 "Budgets").
type Config struct {
	StepBudget     int // default 100,000
	LoopStackDepth int // default 1,024
	DictCapacity   int // default 1,024: userdict's capacity and the largest n `dict n` and `>>` accept
	Fonts          font.HostLookup
}

// DefaultConfig returns the spec's stated defaults.
func DefaultConfig() Config {
	return Config{StepBudget: 100000, LoopStackDepth: 1024, DictCapacity: 1024}
}

// Interpreter is the concrete operator.Interp implementation and the type
// the embedder API (spec §6) is built around: four stacks, a graphics
// context, and a step counter.
type Interpreter struct {
	RunID uuid.UUID

	cfg     Config
	table   *operator.Table
	ops     *value.OperandStack
	dicts   *dictstack.Stack
	execSt  *exec.Stack
	loops   *exec.LoopStack
	gfx     graphics.Context
	fonts   *font.Registry
	rand    *pseudoRand

	scanner  *scan.Scanner
	steps    int
	stopSig  operator.StopSignal
	stopErr  error

	source []byte
	cursor int

	history   historyStore
	startedAt time.Time
	recorded  bool
}

// Load parses source, builds the four stacks, and registers built-ins (spec
// §6 `load(source) -> Interpreter`). gfx may be nil for a headless run (the
// embedder attaches a canvas before Run/Step if it wants painting side
// effects); font lookups fall back to host via cfg.Fonts.
func Load(source []byte, gfx graphics.Context, cfg Config) (*Interpreter, error) {
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 100000
	}
	if cfg.LoopStackDepth <= 0 {
		cfg.LoopStackDepth = 1024
	}
	if cfg.DictCapacity <= 0 {
		cfg.DictCapacity = 1024
	}

	table := operator.NewSystemTable()
	sysDict := value.NewDict(len(table.Names()))
	if err := table.BuildSystemDict(sysDict); err != nil {
		return nil, err
	}
	sysDict.SetAccess(value.ExecuteOnly)

	userDict := value.NewDict(cfg.DictCapacity)

	ip := &Interpreter{
		RunID:     uuid.New(),
		cfg:       cfg,
		table:     table,
		ops:       &value.OperandStack{},
		dicts:     dictstack.New(sysDict),
		execSt:    &exec.Stack{},
		loops:     &exec.LoopStack{},
		gfx:       gfx,
		fonts:     font.NewRegistry(cfg.Fonts),
		rand:      newPseudoRand(1),
		source:    source,
		startedAt: time.Now(),
	}
	ip.dicts.Begin(userDict)

	sc := scan.New(string(source), "<program>")
	ip.scanner = sc
	ip.execSt.Push(exec.NewScannerFrame(sc))
	return ip, nil
}

// --- operator.Interp ---

func (ip *Interpreter) Operands() *value.OperandStack { return ip.ops }
func (ip *Interpreter) Dicts() *dictstack.Stack        { return ip.dicts }
func (ip *Interpreter) ExecStack() *exec.Stack         { return ip.execSt }
func (ip *Interpreter) Loops() *exec.LoopStack         { return ip.loops }
func (ip *Interpreter) Graphics() graphics.Context     { return ip.gfx }
func (ip *Interpreter) Fonts() *font.Registry          { return ip.fonts }
func (ip *Interpreter) Rand() operator.Rand            { return ip.rand }

func (ip *Interpreter) CurrentFile() ([]byte, int, bool) {
	if ip.cursor >= len(ip.source) {
		return ip.source, ip.cursor, false
	}
	return ip.source, ip.cursor, true
}

func (ip *Interpreter) AdvanceFile(n int) { ip.cursor += n }

func (ip *Interpreter) Stop(sig operator.StopSignal, err error) {
	ip.stopSig = sig
	ip.stopErr = err
}

func (ip *Interpreter) Stopped() (operator.StopSignal, error) { return ip.stopSig, ip.stopErr }

func (ip *Interpreter) ClearStop() {
	ip.stopSig = operator.StopNone
	ip.stopErr = nil
}

func (ip *Interpreter) LoopBudget() int { return ip.cfg.LoopStackDepth }

func (ip *Interpreter) DictCapacityLimit() int { return ip.cfg.DictCapacity }

// --- embedder API (spec §6) ---

// OperandStack exposes the operand stack for test/inspection code.
func (ip *Interpreter) OperandStack() *value.OperandStack { return ip.ops }

// DictionaryStack exposes the dictionary stack for test/inspection code.
func (ip *Interpreter) DictionaryStack() *dictstack.Stack { return ip.dicts }

// Metadata returns the DSC prologue fields the scanner has collected so far.
func (ip *Interpreter) Metadata() scan.Metadata { return ip.scanner.Metadata }

// Steps returns the number of fetch-execute steps taken so far.
func (ip *Interpreter) Steps() int { return ip.steps }

// SetGraphics attaches (or replaces) the graphics context a run paints
// against, for embedders that build the interpreter before they have a
// canvas sized from the DSC BoundingBox.
func (ip *Interpreter) SetGraphics(g graphics.Context) { ip.gfx = g }

// Run drives the loop to completion or error (spec §6 `run(ctx)`).
func (ip *Interpreter) Run() error {
	for {
		status, err := ip.Step()
		if err != nil {
			return err
		}
		if status != Running {
			return nil
		}
	}
}

// Step executes one fetch-and-execute step (spec §4.3, §6 `step(ctx)`).
// Host-initiated cancellation is checked by the caller inspecting Stopped()
// between calls; Step itself only observes `quit`'s StopQuit signal.
func (ip *Interpreter) Step() (Status, error) {
	if ip.stopSig == operator.StopQuit {
		return Halted, ip.stopErr
	}

	// Step 1-2: loop-stack readiness (spec §4.3 steps 1-2).
	if top := ip.loops.Top(); top != nil && top.ReadyToExecute(ip.execSt.Depth()) {
		if top.Finished() {
			ip.loops.Pop()
			if f, ok := top.(exec.Finisher); ok {
				f.OnFinish(ip.ops)
			}
			return Running, nil
		}
		top.Execute(ip.ops, ip.execSt)
		return ip.afterStep(nil)
	}

	// Step 3: fetch the next value from the top frame only, popping that
	// frame when it is exhausted so a loop whose body just finished becomes
	// ready on the following step.
	top := ip.execSt.Top()
	if top == nil {
		ip.recordFinish("")
		return Finished, nil
	}
	v, ok, err := top.Next()
	if err != nil {
		return ip.handleError(err)
	}
	if !ok {
		ip.execSt.Pop()
		return Running, nil
	}

	// Step 4: dispatch.
	if err := dispatch(ip, v); err != nil {
		return ip.handleError(err)
	}
	return ip.afterStep(nil)
}

// afterStep decrements the step budget (spec §4.3 step 5), raising
// limitcheck on exhaustion (spec §8 property 10: "runs exactly up to the
// step budget then raises limitcheck").
func (ip *Interpreter) afterStep(err error) (Status, error) {
	if err != nil {
		return ip.handleError(err)
	}
	ip.steps++
	if ip.steps >= ip.cfg.StepBudget {
		budgetErr := perrors.New(perrors.LimitCheck, "step budget of %s exceeded", humanize.Comma(int64(ip.cfg.StepBudget)))
		return ip.handleError(budgetErr)
	}
	return Running, nil
}

// handleError implements the `stopped` catching mechanism (spec §7): if a
// StoppedLoop is active, unwind to it and resume with true on the stack
// instead of propagating. quit's QuitControl error is never caught this
// way: the `quit` operator both sets StopQuit and returns QuitControl, and
// this check runs before the stopped unwind, so quit halts the run even
// from inside a stopped body.
func (ip *Interpreter) handleError(err error) (Status, error) {
	if perrors.Is(err, perrors.QuitControl) {
		ip.Stop(operator.StopQuit, err)
		ip.recordFinish("quit")
		return Halted, err
	}
	if ip.loops.UnwindToStopped(ip.execSt) {
		ip.ops.Push(value.Bool(true))
		ip.steps++
		return Running, nil
	}
	ip.Stop(operator.StopError, err)
	kind := "error"
	if pe, ok := err.(*perrors.PDLError); ok {
		kind = string(pe.Kind)
	}
	ip.recordFinish(kind)
	return Halted, err
}

// dispatch implements spec §4.3 step 4's dispatch table, shared with the
// `exec` operator's runtime dispatch (package operator can't see
// Interpreter's concrete type, so this lives here and operator.Interp's
// `exec` handler calls back through the Interp interface instead; this
// copy mirrors operator/control.go's dispatchValue for the driver's own
// top-level fetch).
func dispatch(ip *Interpreter, v value.Value) error {
	switch v.Type {
	case value.TypeName:
		if !v.IsExecutable() {
			ip.ops.Push(v)
			return nil
		}
		return dispatchName(ip, v.AsName())
	default:
		ip.ops.Push(v)
		return nil
	}
}

func dispatchName(ip *Interpreter, name string) error {
	resolved, ok, err := ip.dicts.Load(value.NameVal(name, value.Literal))
	if err != nil {
		return err
	}
	if !ok {
		return perrors.New(perrors.Undefined, "name %s is not defined", name)
	}
	switch resolved.Type {
	case value.TypeOperator:
		return operator.Call(resolved.AsOperator(), ip)
	case value.TypeArray, value.TypePackedArray:
		if resolved.IsExecutable() {
			ip.execSt.Push(exec.NewArrayFrame(resolved.AsArray()))
			return nil
		}
		ip.ops.Push(resolved)
		return nil
	default:
		ip.ops.Push(resolved)
		return nil
	}
}
