package exec

import "pdlvm/internal/value"

// Loop is the interface every loop-context variant satisfies (spec §4.3:
// "Each loop remembers the execution-stack depth at creation ...
// isReadyToExecute ... finished ... execute ... exit").
type Loop interface {
	// ReadyToExecute reports whether the execution stack has drained back to
	// the depth recorded at creation.
	ReadyToExecute(execDepth int) bool
	// Finished reports whether the loop has no more iterations.
	Finished() bool
	// Execute advances the loop by one iteration: pushes loop variables onto
	// ops, then pushes a fresh activation of body onto the execution stack.
	Execute(ops *value.OperandStack, execStack *Stack)
	// Depth returns the execution-stack depth recorded at creation, the
	// target for `exit`'s truncation.
	Depth() int
}

type base struct {
	body  *value.Array
	depth int
}

func (b base) Depth() int { return b.depth }

func (b base) ReadyToExecute(execDepth int) bool { return execDepth <= b.depth }

func (b base) pushBody(execStack *Stack) {
	execStack.Push(NewArrayFrame(b.body))
}

// RepeatLoop implements `repeat`: run body target times.
type RepeatLoop struct {
	base
	target, current int64
}

func NewRepeatLoop(body *value.Array, depth int, target int64) *RepeatLoop {
	return &RepeatLoop{base: base{body: body, depth: depth}, target: target}
}

func (l *RepeatLoop) Finished() bool { return l.current >= l.target }

func (l *RepeatLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	l.current++
	l.pushBody(execStack)
}

// ForLoop implements `for`: v from initial to limit by step.
type ForLoop struct {
	base
	v, limit, step float64
	isInt          bool
}

func NewForLoop(body *value.Array, depth int, v, limit, step float64, isInt bool) *ForLoop {
	return &ForLoop{base: base{body: body, depth: depth}, v: v, limit: limit, step: step, isInt: isInt}
}

func (l *ForLoop) Finished() bool {
	if l.step >= 0 {
		return l.v > l.limit
	}
	return l.v < l.limit
}

func (l *ForLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	if l.isInt {
		ops.Push(value.Int(int64(l.v)))
	} else {
		ops.Push(value.Real(l.v))
	}
	l.v += l.step
	l.pushBody(execStack)
}

// InfiniteLoop implements `loop`: runs until `exit`/`stop`.
type InfiniteLoop struct {
	base
}

func NewInfiniteLoop(body *value.Array, depth int) *InfiniteLoop {
	return &InfiniteLoop{base: base{body: body, depth: depth}}
}

func (l *InfiniteLoop) Finished() bool { return false }

func (l *InfiniteLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	l.pushBody(execStack)
}

// ArrayForallLoop implements `forall` over an Array: pushes array[i], then body.
type ArrayForallLoop struct {
	base
	arr *value.Array
	i   int
}

func NewArrayForallLoop(body *value.Array, depth int, arr *value.Array) *ArrayForallLoop {
	return &ArrayForallLoop{base: base{body: body, depth: depth}, arr: arr}
}

func (l *ArrayForallLoop) Finished() bool { return l.i >= l.arr.Len() }

func (l *ArrayForallLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	v, err := l.arr.Get(l.i)
	l.i++
	if err != nil {
		// Array shrank out from under the loop; treat as exhausted rather
		// than raising mid-iteration.
		l.i = l.arr.Len()
		return
	}
	ops.Push(v)
	l.pushBody(execStack)
}

// StringForallLoop implements `forall` over a String: pushes each byte as an Integer.
type StringForallLoop struct {
	base
	str *value.PStr
	i   int
}

func NewStringForallLoop(body *value.Array, depth int, str *value.PStr) *StringForallLoop {
	return &StringForallLoop{base: base{body: body, depth: depth}, str: str}
}

func (l *StringForallLoop) Finished() bool { return l.i >= l.str.Len() }

func (l *StringForallLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	b, err := l.str.Get(l.i)
	l.i++
	if err != nil {
		l.i = l.str.Len()
		return
	}
	ops.Push(value.Int(int64(b)))
	l.pushBody(execStack)
}

// DictForallLoop implements `forall` over a Dictionary: pushes key then value,
// iterating a key snapshot taken at loop creation (spec §4.3 table: "keys snapshot, i").
type DictForallLoop struct {
	base
	dict *value.Dict
	keys []value.Value
	i    int
}

func NewDictForallLoop(body *value.Array, depth int, dict *value.Dict) *DictForallLoop {
	return &DictForallLoop{base: base{body: body, depth: depth}, dict: dict, keys: dict.Keys()}
}

func (l *DictForallLoop) Finished() bool { return l.i >= len(l.keys) }

func (l *DictForallLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	k := l.keys[l.i]
	l.i++
	v, ok, err := l.dict.Get(k)
	if err != nil || !ok {
		return
	}
	ops.Push(k)
	ops.Push(v)
	l.pushBody(execStack)
}

// Finisher is implemented by loop kinds that need to react at the moment the
// driver pops them for being finished (ordinary loops don't; StoppedLoop
// pushes its boolean result).
type Finisher interface {
	OnFinish(ops *value.OperandStack)
}

// StoppedLoop backs the `stopped` operator: it pushes body exactly once, and
// once the body has fully drained (ReadyToExecute true again with Finished
// true) the driver pops it and OnFinish pushes false — the "no error"
// outcome. If an error propagates out of the body instead, the driver
// recognizes StoppedLoop specially (by type) and unwinds to it directly,
// truncating to Depth() and pushing true instead of calling OnFinish.
type StoppedLoop struct {
	base
	executed bool
}

func NewStoppedLoop(body *value.Array, depth int) *StoppedLoop {
	return &StoppedLoop{base: base{body: body, depth: depth}}
}

func (l *StoppedLoop) Finished() bool { return l.executed }

func (l *StoppedLoop) Execute(ops *value.OperandStack, execStack *Stack) {
	l.executed = true
	l.pushBody(execStack)
}

func (l *StoppedLoop) OnFinish(ops *value.OperandStack) {
	ops.Push(value.Bool(false))
}

// LoopStack is the loop stack of spec §3/§5 ("loop-stack depth ≤ 1,024").
type LoopStack struct {
	loops []Loop
}

func (s *LoopStack) Push(l Loop) { s.loops = append(s.loops, l) }
func (s *LoopStack) Depth() int  { return len(s.loops) }
func (s *LoopStack) Empty() bool { return len(s.loops) == 0 }

func (s *LoopStack) Top() Loop {
	if len(s.loops) == 0 {
		return nil
	}
	return s.loops[len(s.loops)-1]
}

func (s *LoopStack) Pop() {
	if len(s.loops) > 0 {
		s.loops = s.loops[:len(s.loops)-1]
	}
}

// Exit implements the `exit` operator: truncate the execution stack back to
// the recorded depth and pop the loop.
func (s *LoopStack) Exit(execStack *Stack) {
	l := s.Top()
	if l == nil {
		return
	}
	execStack.Truncate(l.Depth())
	s.Pop()
}

// UnwindToStopped pops loops (truncating execStack to each one's depth in
// turn) until it finds a StoppedLoop, which it also pops after truncating
// execStack to its depth. found is false if none was active, in which case
// the loop stack is left fully drained and the caller must propagate the
// error that triggered the unwind.
func (s *LoopStack) UnwindToStopped(execStack *Stack) (found bool) {
	for !s.Empty() {
		l := s.Top()
		if sl, ok := l.(*StoppedLoop); ok {
			execStack.Truncate(sl.Depth())
			s.Pop()
			return true
		}
		execStack.Truncate(l.Depth())
		s.Pop()
	}
	return false
}
