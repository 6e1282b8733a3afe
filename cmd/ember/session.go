package main

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"ember/core-go/pkg/collections"
	"ember/core-go/pkg/iter"
	"ember/core-go/pkg/locale"
	"ember/core-go/pkg/numeric"
	"ember/core-go/pkg/runtime"
)

// session evaluates the driver's small expression language: literals, list
// literals, left-to-right arithmetic, a trailing "| spec" and a handful of
// prefix commands.
type session struct {
	rt *runtime.Runtime
}

func newSession(rt *runtime.Runtime) *session {
	return &session{rt: rt}
}

type command func(s *session, toks []string) (runtime.Value, error)

var commands map[string]command

func init() {
	commands = map[string]command{
		"sort":    (*session).cmdSort,
		"len":     (*session).cmdLen,
		"sum":     (*session).cmdSum,
		"hash":    (*session).cmdHash,
		"marshal": (*session).cmdMarshal,
		"range":   (*session).cmdRange,
	}
}

func (s *session) eval(line string) (string, error) {
	body, spec, formatted := splitSpec(line)
	toks, err := tokenize(body)
	if err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", nil
	}
	var v runtime.Value
	if cmd, ok := commands[toks[0]]; ok {
		v, err = cmd(s, toks[1:])
	} else {
		v, err = s.parse(toks)
	}
	if err != nil {
		return "", err
	}
	defer s.rt.Release(v)
	if formatted {
		return numeric.Format(s.rt, v, spec, nil)
	}
	return s.rt.Repr(v)
}

// report raises err in the runtime's error slot, records the driver frame
// and returns the rendered uncaught error.
func (s *session) report(err error, module string, line int) string {
	if !s.rt.Errors.Capture(err) {
		return ""
	}
	s.rt.Errors.Unwind(module, "eval", line)
	out := s.rt.Errors.Uncaught()
	s.rt.Errors.Clear()
	return out
}

// splitSpec cuts the line at the first "|" outside a string literal.
func splitSpec(line string) (string, string, bool) {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case '|':
			if !quoted {
				return line[:i], strings.TrimSpace(line[i+1:]), true
			}
		}
	}
	return line, "", false
}

func tokenize(src string) ([]string, error) {
	var toks []string
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '[' || c == ']' || c == ',':
			toks = append(toks, string(c))
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, runtime.NewParseError("unterminated string literal")
			}
			toks = append(toks, src[i:j+1])
			i = j + 1
		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t[],\"", rune(src[j])) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks, nil
}

var binaryOps = map[string]func(*runtime.Runtime, runtime.Value, runtime.Value) (runtime.Value, error){
	"+": numeric.Add,
	"-": numeric.Sub,
	"*": numeric.Mul,
	"/": numeric.Div,
	"%": numeric.Mod,
}

type parser struct {
	s    *session
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

// parse evaluates toks as a single expression.
func (s *session) parse(toks []string) (runtime.Value, error) {
	p := &parser{s: s, toks: toks}
	v, err := p.expr()
	if err != nil {
		return runtime.Null, err
	}
	if p.pos < len(toks) {
		s.rt.Release(v)
		return runtime.Null, runtime.NewParseError("unexpected %q", p.peek())
	}
	return v, nil
}

func (p *parser) expr() (runtime.Value, error) {
	rt := p.s.rt
	acc, err := p.operand()
	if err != nil {
		return runtime.Null, err
	}
	for {
		op, ok := binaryOps[p.peek()]
		if !ok {
			return acc, nil
		}
		p.next()
		rhs, err := p.operand()
		if err != nil {
			rt.Release(acc)
			return runtime.Null, err
		}
		out, err := op(rt, acc, rhs)
		rt.Release(acc)
		rt.Release(rhs)
		if err != nil {
			return runtime.Null, err
		}
		acc = out
	}
}

func (p *parser) operand() (runtime.Value, error) {
	tok := p.next()
	switch tok {
	case "":
		return runtime.Null, runtime.NewParseError("unexpected end of input")
	case "[":
		return p.list()
	case "]", ",":
		return runtime.Null, runtime.NewParseError("unexpected %q", tok)
	}
	return p.s.literal(tok)
}

func (p *parser) list() (runtime.Value, error) {
	rt := p.s.rt
	var items []runtime.Value
	defer func() { rt.ReleaseAll(items) }()
	if p.peek() == "]" {
		p.next()
		return collections.NewList(rt), nil
	}
	for {
		v, err := p.expr()
		if err != nil {
			return runtime.Null, err
		}
		items = append(items, v)
		switch p.next() {
		case ",":
		case "]":
			return collections.NewList(rt, items...), nil
		default:
			return runtime.Null, runtime.NewParseError("expected , or ] in list literal")
		}
	}
}

// literal parses one scalar token. Source literals always use "." as the
// decimal separator.
func (s *session) literal(tok string) (runtime.Value, error) {
	switch tok {
	case "null":
		return runtime.Null, nil
	case "true":
		return runtime.True, nil
	case "false":
		return runtime.False, nil
	}
	switch {
	case strings.HasPrefix(tok, `"`):
		text, err := strconv.Unquote(tok)
		if err != nil {
			return runtime.Null, runtime.NewParseError("invalid string literal %s", tok)
		}
		return s.rt.NewString(text), nil
	case strings.Contains(tok, "/"):
		return numeric.ParseRational(s.rt, tok)
	case strings.ContainsAny(tok, ".eE") || strings.HasSuffix(tok, "inf") || strings.HasSuffix(tok, "nan"):
		return numeric.ParseFloat(s.rt, tok, locale.Default())
	}
	return numeric.ParseInteger(s.rt, tok, 10)
}

func (s *session) iterate(toks []string) (runtime.Iterator, error) {
	v, err := s.parse(toks)
	if err != nil {
		return nil, err
	}
	defer s.rt.Release(v)
	return s.rt.Iterate(v)
}

func (s *session) cmdSort(toks []string) (runtime.Value, error) {
	it, err := s.iterate(toks)
	if err != nil {
		return runtime.Null, err
	}
	return iter.Sorted(s.rt, it, nil)
}

func (s *session) cmdLen(toks []string) (runtime.Value, error) {
	it, err := s.iterate(toks)
	if err != nil {
		return runtime.Null, err
	}
	n, err := iter.Count(s.rt, it)
	if err != nil {
		return runtime.Null, err
	}
	return numeric.FromInt64(s.rt, int64(n)), nil
}

func (s *session) cmdSum(toks []string) (runtime.Value, error) {
	it, err := s.iterate(toks)
	if err != nil {
		return runtime.Null, err
	}
	add := runtime.NativeFunc(func(args []runtime.Value) (runtime.Value, error) {
		return numeric.Add(s.rt, args[0], args[1])
	})
	return iter.Reduce(s.rt, it, add, runtime.SmallInt(0))
}

func (s *session) cmdHash(toks []string) (runtime.Value, error) {
	v, err := s.parse(toks)
	if err != nil {
		return runtime.Null, err
	}
	defer s.rt.Release(v)
	h, err := s.rt.Hash(v)
	if err != nil {
		return runtime.Null, err
	}
	return numeric.FromInt64(s.rt, int64(h)), nil
}

func (s *session) cmdMarshal(toks []string) (runtime.Value, error) {
	v, err := s.parse(toks)
	if err != nil {
		return runtime.Null, err
	}
	defer s.rt.Release(v)
	var buf bytes.Buffer
	if err := s.rt.Marshal(&buf, v); err != nil {
		return runtime.Null, err
	}
	return s.rt.NewString(hex.EncodeToString(buf.Bytes())), nil
}

// cmdRange materialises begin..<end, optionally stepped.
func (s *session) cmdRange(toks []string) (runtime.Value, error) {
	if len(toks) < 2 || len(toks) > 3 {
		return runtime.Null, runtime.NewValueError("range expects begin end [step]")
	}
	bounds := make([]runtime.Value, 3)
	defer func() { s.rt.ReleaseAll(bounds) }()
	for i, tok := range toks {
		v, err := s.literal(tok)
		if err != nil {
			return runtime.Null, err
		}
		bounds[i] = v
	}
	r, err := collections.NewRange(s.rt, bounds[0], bounds[1], true, bounds[2])
	if err != nil {
		return runtime.Null, err
	}
	defer s.rt.Release(r)
	it, err := s.rt.Iterate(r)
	if err != nil {
		return runtime.Null, err
	}
	return iter.ToList(s.rt, it)
}
