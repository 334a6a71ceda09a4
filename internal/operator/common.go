package operator

import "pdlvm/internal/value"

// txn runs fn against ops transactionally: if fn returns an error, the
// operand stack is restored to its pre-call state before the error
// propagates (spec §7: "all argument popping is transactional").
func txn(ops *value.OperandStack, fn func() error) error {
	snap := ops.Snapshot()
	if err := fn(); err != nil {
		ops.Restore(snap)
		return err
	}
	return nil
}
