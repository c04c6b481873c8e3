package bigexpr

import (
	"strconv"
	"unicode"
)

// ParseOption configures Parse. Options apply in the order given.
type ParseOption interface {
	apply(*parsectx)
}

// parsectx is the configuration of one parse. A pointer to one is also the
// ParseOption that ParsingPreset returns.
type parsectx struct {
	// funcs maps identifiers to the functions they call. A nil entry makes
	// the identifier a plain variable name.
	funcs map[string]Func
	// nodefaults is set once every name in globalfuncs has an entry in funcs.
	nodefaults bool
	// vars holds declared variable types.
	vars map[string]Type
	// reg resolves operations. Nil means Default.
	reg *Registry
	// wseof lists whitespace runes that end the input where an operator may
	// appear.
	wseof string
	// ceof and seof allow a trailing comma or semicolon, respectively, to end
	// the expression.
	ceof, seof bool
}

// setFuncs copies fns into the function table, never writing to a map that
// another option or preset owns.
func (p *parsectx) setFuncs(fns map[string]Func) {
	m := make(map[string]Func, len(p.funcs)+len(fns))
	for k, v := range p.funcs {
		m[k] = v
	}
	for k, v := range fns {
		m[k] = v
	}
	p.funcs = m
	if p.nodefaults {
		return
	}
	for k := range globalfuncs {
		if _, ok := m[k]; !ok {
			return
		}
	}
	p.nodefaults = true
}

// fillDefaults adds default functions for names the options left unset.
func (p *parsectx) fillDefaults() {
	if p.funcs == nil {
		p.funcs = globalfuncs
		return
	}
	if p.nodefaults {
		return
	}
	for k, v := range globalfuncs {
		if _, ok := p.funcs[k]; !ok {
			p.funcs[k] = v
		}
	}
	p.nodefaults = true
}

func (p *parsectx) declare(vars map[string]Type) {
	m := make(map[string]Type, len(p.vars)+len(vars))
	for k, v := range p.vars {
		m[k] = v
	}
	for k, v := range vars {
		m[k] = v
	}
	p.vars = m
}

type optfunc func(*parsectx)

func (f optfunc) apply(p *parsectx) { f(p) }

// ParseFunc makes name call fn. A nil fn makes name an ordinary identifier.
func ParseFunc(name string, fn Func) ParseOption {
	return ParseFuncs(map[string]Func{name: fn})
}

// ParseFuncs is ParseFunc for several names at once.
func ParseFuncs(fns map[string]Func) ParseOption {
	return optfunc(func(p *parsectx) { p.setFuncs(fns) })
}

// DisableDefaultFuncs turns exp, ln, log, sqrt, pi, and e into ordinary
// identifiers.
func DisableDefaultFuncs() ParseOption {
	return disableDefaults
}

var disableDefaults = func() ParseOption {
	m := make(map[string]Func, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return ParseFuncs(m)
}()

// Declare declares a variable of a given type. Identifiers that name neither
// a function nor a declared variable are errors.
func Declare(name string, t Type) ParseOption {
	return DeclareVars(map[string]Type{name: t})
}

// DeclareVars declares any number of variables.
func DeclareVars(vars map[string]Type) ParseOption {
	return optfunc(func(p *parsectx) { p.declare(vars) })
}

// WithRegistry resolves the parsed operations against reg instead of
// Default.
func WithRegistry(reg *Registry) ParseOption {
	return optfunc(func(p *parsectx) { p.reg = reg })
}

// StopOn ends the expression at any of the given runes, which must be commas,
// semicolons, or whitespace, instead of at EOF. The input after the stop rune
// is left unread.
//
// A whitespace stop only applies where the expression could already be
// complete, so "x +\ny" is still one expression. A comma or semicolon stop
// does not apply inside an argument list. The last StopOn given wins, and
// StopOn with no runes restores parsing to EOF.
func StopOn(chars ...rune) ParseOption {
	var ws []rune
	var c, s bool
	for _, r := range chars {
		switch {
		case r == ',':
			c = true
		case r == ';':
			s = true
		case unicode.IsSpace(r):
			ws = append(ws, r)
		default:
			panic("bigexpr: StopOn " + strconv.QuoteRune(r) + " is not a comma, semicolon, or space")
		}
	}
	wseof := string(ws)
	return optfunc(func(p *parsectx) {
		p.wseof, p.ceof, p.seof = wseof, c, s
	})
}

// ParsingPreset bundles options so that repeated calls to Parse skip building
// the function table each time. A preset must come before any other option;
// it panics if an earlier option has already changed the configuration.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := new(parsectx)
	for _, opt := range opts {
		opt.apply(p)
	}
	if p.funcs != nil {
		p.fillDefaults()
	}
	return p
}

func (o *parsectx) apply(p *parsectx) {
	if p.funcs != nil || p.vars != nil || p.reg != nil || p.wseof != "" || p.ceof || p.seof {
		panic("bigexpr: preset after other parse options")
	}
	*p = *o
}
