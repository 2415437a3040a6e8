package eval

import (
	"fmt"

	"github.com/signadot/tsd/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression. A Filter is not safe for
// concurrent use.
type Filter struct {
	src string
	prg *vm.Program
	cur *ir.Element
}

func Compile(src string) (*Filter, error) {
	f := &Filter{src: src}
	prg, err := expr.Compile(src, f.exprOpts()...)
	if err != nil {
		return nil, err
	}
	f.prg = prg
	return f, nil
}

func (f *Filter) String() string {
	return f.src
}

func (f *Filter) exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			return f.cur.Path(), nil
		},
			new(func() string)),
		expr.Function("getpath", func(params ...any) (any, error) {
			path := params[0].(string)
			res, err := f.cur.Query(path)
			if err != nil {
				return nil, err
			}
			if res == nil {
				return nil, nil
			}
			return res.ToJSON()
		},
			new(func(string) any)),
	}
}

// Match evaluates the filter at e.
func (f *Filter) Match(e *ir.Element) (bool, error) {
	env, err := ElementEnv(e)
	if err != nil {
		return false, err
	}
	f.cur = e
	defer func() { f.cur = nil }()
	res, err := expr.Run(f.prg, env)
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q gave %T", ErrNotBool, f.src, res)
	}
	return b, nil
}

// Select returns the live children of e matched by f. A nil filter
// matches everything.
func Select(e *ir.Element, f *Filter) ([]*ir.Element, error) {
	kids := e.Children()
	if f == nil {
		return kids, nil
	}
	res := []*ir.Element{}
	for _, kid := range kids {
		ok, err := f.Match(kid)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kid.Path(), err)
		}
		if ok {
			res = append(res, kid)
		}
	}
	return res, nil
}
