package operator

import (
	"pdlvm/internal/filter"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterFile installs the file/stream group (spec §4.4 "Files"). The
// embedding only ever exposes the one input stream backing the running
// program (spec §6: "the host supplies the program bytes up front"), so
// `currentfile` is the sole source object; `file`/`closefile`/`write` (which
// would need to open host filesystem paths) are stubbed to raise
// undefinedfilename rather than silently doing nothing.
func RegisterFile(t *Table) {
	t.RegisterSimple("currentfile", func(ip Interp) error {
		ip.Operands().Push(value.Value{Type: value.TypeFile})
		return nil
	})

	t.RegisterSimple("filter", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			name, err := ops.PopName()
			if err != nil {
				return err
			}
			src, err := ops.PopString()
			if err != nil {
				return err
			}
			switch name {
			case "ASCII85Decode":
				decoded, err := filter.ASCII85Decode(src.Bytes())
				if err != nil {
					return err
				}
				ops.Push(value.Str(value.NewStringFromText(string(decoded))))
				return nil
			case "ASCII85Encode":
				ops.Push(value.Str(value.NewStringFromText(string(filter.ASCII85Encode(src.Bytes())))))
				return nil
			default:
				return perrors.New(perrors.Undefined, "unknown filter %q", name)
			}
		})
	})

	t.RegisterSimple("readstring", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopString()
			if err != nil {
				return err
			}
			if _, err := ops.PopType(value.TypeFile); err != nil {
				return err
			}
			src, cursor, ok := ip.CurrentFile()
			if !ok {
				ops.Push(value.Str(dst))
				ops.Push(value.Bool(false))
				return nil
			}
			remaining := src[cursor:]
			n := dst.Len()
			if n > len(remaining) {
				n = len(remaining)
			}
			if err := dst.Splice(0, remaining[:n]); err != nil {
				return err
			}
			ip.AdvanceFile(n)
			sub, err := dst.SubString(0, n)
			if err != nil {
				return err
			}
			ops.Push(value.Str(sub))
			ops.Push(value.Bool(n == dst.Len()))
			return nil
		})
	})

	t.RegisterSimple("file", func(ip Interp) error {
		return perrors.New(perrors.UndefinedFilename, "file: host filesystem access is not available")
	})

	t.RegisterSimple("closefile", func(ip Interp) error {
		return perrors.New(perrors.UndefinedFilename, "closefile: host filesystem access is not available")
	})

	t.RegisterSimple("write", func(ip Interp) error {
		return perrors.New(perrors.UndefinedFilename, "write: host filesystem access is not available")
	})
}
