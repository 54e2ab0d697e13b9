package rootfind

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt    map[string]Func
	varsopt     []string
	anyvarsopt  struct{}
	explicitopt struct{}
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// funcs is the set of function names that trigger special parsing for ids.
	funcs map[string]Func
	// vars is the list of identifiers allowed as variables. The first is the
	// independent variable. If empty, the only variable is x.
	vars []string
	// anyvars allows any identifier that is not a function as a variable.
	anyvars bool
	// explicit disables multiplication by juxtaposition and bracketless calls.
	explicit bool
	// resv is a reserved parsed node. parsearglist sets this when it parses a
	// single parenthesized term so that the parser can back it out to an
	// implicit multiplication if the function is niladic.
	resv *node
	// nodefaults indicates that parse options have set all default functions.
	nodefaults bool
}

// DefaultVar is the independent variable of an expression parsed without
// the Vars option.
const DefaultVar = "x"

// indep returns the independent variable.
func (p *parsectx) indep() string {
	if len(p.vars) == 0 {
		return DefaultVar
	}
	return p.vars[0]
}

// allowed reports whether name may be used as a variable.
func (p *parsectx) allowed(name string) bool {
	if p.anyvars {
		return true
	}
	if len(p.vars) == 0 {
		return name == DefaultVar
	}
	for _, v := range p.vars {
		if v == name {
			return true
		}
	}
	return false
}

func (p *parsectx) checkdefaults() {
	if p.nodefaults {
		return
	}
	n := 0
	for k := range p.funcs {
		if _, ok := globalfuncs[k]; ok {
			n++
		}
	}
	if n == len(globalfuncs) {
		p.nodefaults = true
	}
}

// ParseFunc sets a function for parsing. To disable parsing a function, pass
// nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	if p.funcs == nil {
		p.funcs = map[string]Func{}
	}
	p.funcs[o.name] = o.fn
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	if p.funcs == nil {
		// Always make a copy.
		p.funcs = make(map[string]Func, len(o))
	}
	for k, v := range o {
		p.funcs[k] = v
	}
	p.checkdefaults()
	return p
}

// DisableDefaultFuncs disables all default functions during parsing. Their
// names become ordinary identifiers.
func DisableDefaultFuncs() ParseOption {
	o := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		o[k] = nil
	}
	return o
}

// Vars sets the identifiers allowed as variables. The first name is the
// independent variable used by Expr.At, Derivative, and Sample. With no
// names, the only variable is x.
func Vars(names ...string) ParseOption {
	for _, name := range names {
		if name == "" {
			panic("rootfind: empty variable name")
		}
	}
	return varsopt(names)
}

func (o varsopt) parseOption(p parsectx) parsectx {
	p.vars = append([]string(nil), o...)
	return p
}

// AnyVars allows any identifier which does not name a function to be parsed as
// a variable. It does not change the independent variable.
func AnyVars() ParseOption {
	return anyvarsopt{}
}

func (anyvarsopt) parseOption(p parsectx) parsectx {
	p.anyvars = true
	return p
}

// Explicit requires every multiplication to be written with an operator and
// every function argument list to be bracketed. Under Explicit, inputs like
// 2x, 3(x+1), and sin x are errors.
func Explicit() ParseOption {
	return explicitopt{}
}

func (explicitopt) parseOption(p parsectx) parsectx {
	p.explicit = true
	return p
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs != nil {
		// If we've set any functions, add unset default ones now.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
		p.nodefaults = true
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.funcs != nil || p.vars != nil || p.anyvars || p.explicit {
		panic("rootfind: preset applied to non-default parse config")
	}
	p.funcs = o.funcs
	p.nodefaults = o.nodefaults
	p.vars = o.vars
	p.anyvars = o.anyvars
	p.explicit = o.explicit
	return p
}
