// Package scan promotes the lexer's tokens into typed values (spec §4.1,
// C3): numbers, names, strings, procedures, and the Mark-pushing behavior of
// `[`/`<<`. It also captures DSC metadata comments for the graphics adapter.
package scan

import (
	"strconv"
	"strings"

	"pdlvm/internal/perrors"
	"pdlvm/internal/token"
	"pdlvm/internal/value"
)

// Metadata holds the opaque DSC record exposed to the host (spec §4.1, §6).
type Metadata struct {
	BoundingBox    [4]float64
	HasBoundingBox bool
	Title          string
	Creator        string
	CreationDate   string
	Pages          int
	Other          map[string]string
}

// Scanner drives a Lexer and yields value.Value (spec §4.3 step 3: "ask it
// for the next Value; on EOF pop the frame").
type Scanner struct {
	lex      *token.Lexer
	file     string
	Metadata Metadata
}

func New(source, file string) *Scanner {
	return &Scanner{lex: token.NewLexer(source), file: file, Metadata: Metadata{Other: map[string]string{}}}
}

// LexerPos returns the current byte offset of the underlying lexer, for
// callers (the `token` operator) that need the unconsumed remainder of the
// source after reading a single value.
func (s *Scanner) LexerPos() int { return s.lex.Pos() }

// Next returns the next Value with ok true, or (Value{}, false, nil) at end
// of input. End of input is reported via the ok bool rather than io.EOF so
// callers don't need to special-case error identity.
func (s *Scanner) Next() (value.Value, bool, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return value.Value{}, false, s.locate(err)
		}
		s.drainDSC()
		switch tok.Kind {
		case token.EOF:
			return value.Value{}, false, nil
		case token.ProcOpen:
			v, err := s.readProcedure()
			return v, true, err
		case token.ProcClose:
			return value.Value{}, false, perrors.New(perrors.SyntaxError, "unexpected '}' at line %d", tok.Line)
		case token.ArrayOpen, token.DictOpen:
			return value.Mark(), true, nil
		case token.ArrayClose:
			return value.NameVal("]", value.Executable), true, nil
		case token.DictClose:
			return value.NameVal(">>", value.Executable), true, nil
		default:
			v, err := s.literal(tok)
			if err != nil {
				return value.Value{}, false, s.locate(err)
			}
			return v, true, nil
		}
	}
}

func (s *Scanner) locate(err error) error {
	if pe, ok := err.(*perrors.PDLError); ok {
		pe.Location.File = s.file
		return pe
	}
	return err
}

// readProcedure collects values until the matching '}' (spec §4.1), building
// an Executable Array — this *is* the procedure's parsed representation,
// with no separate AST stage (Design Notes).
func (s *Scanner) readProcedure() (value.Value, error) {
	var elems []value.Value
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return value.Value{}, err
		}
		s.drainDSC()
		switch tok.Kind {
		case token.EOF:
			return value.Value{}, perrors.New(perrors.SyntaxError, "unterminated procedure")
		case token.ProcClose:
			return value.Arr(value.NewArrayFrom(elems), value.Executable), nil
		case token.ProcOpen:
			v, err := s.readProcedure()
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		case token.ArrayOpen, token.DictOpen:
			elems = append(elems, value.Mark())
		case token.ArrayClose:
			elems = append(elems, value.NameVal("]", value.Executable))
		case token.DictClose:
			elems = append(elems, value.NameVal(">>", value.Executable))
		default:
			v, err := s.literal(tok)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		}
	}
}

func (s *Scanner) literal(tok token.Token) (value.Value, error) {
	switch tok.Kind {
	case token.Integer:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return value.Value{}, perrors.New(perrors.SyntaxError, "invalid integer %q", tok.Text)
		}
		return value.Int(n), nil
	case token.Real:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return value.Value{}, perrors.New(perrors.SyntaxError, "invalid real %q", tok.Text)
		}
		return value.Real(f), nil
	case token.Radix:
		n, err := strconv.ParseInt(strings.ToLower(tok.Text), tok.Radix, 64)
		if err != nil {
			return value.Value{}, perrors.New(perrors.SyntaxError, "invalid radix number %q", tok.Text)
		}
		return value.Int(n), nil
	case token.LiteralName:
		return value.NameVal(tok.Text, value.Literal), nil
	case token.ImmediateName:
		// Spec §4.1: "immediate literal name — treated as executable by default".
		return value.NameVal(tok.Text, value.Executable), nil
	case token.ExecName:
		return value.NameVal(tok.Text, value.Executable), nil
	case token.LiteralString, token.HexString, token.Base85String:
		return value.Str(value.NewStringFromText(tok.Text)), nil
	default:
		return value.Value{}, perrors.New(perrors.SyntaxError, "unexpected token at line %d", tok.Line)
	}
}

func (s *Scanner) drainDSC() {
	body, ok := s.lex.TakeDSC()
	if !ok {
		return
	}
	parseDSC(body, &s.Metadata)
}

func parseDSC(body string, meta *Metadata) {
	idx := strings.Index(body, ":")
	var key, rest string
	if idx < 0 {
		key, rest = strings.TrimSpace(body), ""
	} else {
		key, rest = strings.TrimSpace(body[:idx]), strings.TrimSpace(body[idx+1:])
	}
	switch key {
	case "BoundingBox":
		fields := strings.Fields(rest)
		if len(fields) == 4 {
			var bb [4]float64
			ok := true
			for i, f := range fields {
				n, err := strconv.ParseFloat(f, 64)
				if err != nil {
					ok = false
					break
				}
				bb[i] = n
			}
			if ok {
				meta.BoundingBox = bb
				meta.HasBoundingBox = true
			}
		}
	case "Title":
		meta.Title = rest
	case "Creator":
		meta.Creator = rest
	case "CreationDate":
		meta.CreationDate = rest
	case "Pages":
		if n, err := strconv.Atoi(rest); err == nil {
			meta.Pages = n
		}
	default:
		if key != "" {
			meta.Other[key] = rest
		}
	}
}
