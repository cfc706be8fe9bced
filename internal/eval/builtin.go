package eval

import (
	"math"

	"github.com/klisp-lang/klisp/internal/expand"
	"github.com/klisp-lang/klisp/internal/kerr"
	"github.com/klisp-lang/klisp/internal/reader"
	"github.com/klisp-lang/klisp/internal/token"
	"github.com/klisp-lang/klisp/internal/trampoline"
	"github.com/klisp-lang/klisp/internal/value"
)

// applyBuiltin dispatches on a Builtin's tag. Non-tail forms (everything
// except the selected branch of if, the last form of do, and eval's
// recursive re-entry) are driven to Values via runToValue before this
// function returns; tail positions return More(thunk) directly.
func applyBuiltin(tag token.SpecialForm, args []value.Value, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	switch tag {
	case token.ADD, token.SUB, token.MUL, token.DIV, token.MOD, token.POW:
		return doneOrErr(evalArithmetic(tag, args, env, e))
	case token.EQ, token.GT, token.LT:
		return doneOrErr(evalComparison(tag, args, env, e))
	case token.CONCAT:
		return doneOrErr(evalConcat(args, env, e))
	case token.QUOTE:
		return evalQuote(args)
	case token.IF:
		return evalIf(args, env, e)
	case token.DO:
		return evalDo(args, env, e)
	case token.DEF:
		return doneOrErr(evalDef(args, env, e))
	case token.SETBANG:
		return doneOrErr(evalSetBang(args, env, e))
	case token.LAMBDA:
		return doneOrErr(evalLambda(args, env))
	case token.MACRO:
		return doneOrErr(evalMacro(args))
	case token.EXPAND_MACRO:
		return doneOrErr(evalExpandMacro(args, env))
	case token.EVAL:
		return evalEval(args, env, e)
	case token.CAR:
		return doneOrErr(evalCar(args, env, e))
	case token.CDR:
		return doneOrErr(evalCdr(args, env, e))
	case token.CONS:
		return doneOrErr(evalConsBuiltin(args, env, e))
	case token.TYPE_OF:
		return doneOrErr(evalTypeOf(args, env, e))
	case token.SYMBOL:
		return doneOrErr(evalSymbol(args, env, e))
	case token.PRINT:
		return doneOrErr(evalPrint(args, env, e))
	case token.READ:
		return doneOrErr(evalRead(args, env))
	case token.LOAD:
		return doneOrErr(evalLoad(args, env, e))
	case token.RAISE:
		return doneOrErr(evalRaise(args, env, e))
	case token.DOT, token.DOT_FIELD:
		return trampoline.Trampoline{}, kerr.NewRuntime("host interop not supported")
	default:
		return trampoline.Trampoline{}, kerr.NewEval("unknown builtin")
	}
}

func doneOrErr(v value.Value, err error) (trampoline.Trampoline, error) {
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	return trampoline.Done(v), nil
}

func evalArgs(args []value.Value, env *value.Environment, e *Evaluator) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := runToValue(a, env, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalArithmetic(tag token.SpecialForm, rawArgs []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	args, err := evalArgs(rawArgs, env, e)
	if err != nil {
		return nil, err
	}

	switch tag {
	case token.ADD:
		return reduceArith(args, 0, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case token.MUL:
		return reduceArith(args, 1, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case token.SUB:
		if len(args) == 0 {
			return nil, kerr.NewEval("- requires at least 1 argument")
		}
		if len(args) == 1 {
			return negate(args[0])
		}
		return foldArith(args, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case token.DIV:
		if len(args) == 0 {
			return nil, kerr.NewEval("/ requires at least 1 argument")
		}
		if len(args) == 1 {
			return divide(value.Float(1), args[0])
		}
		acc := args[0]
		for _, a := range args[1:] {
			var err error
			acc, err = divide(acc, a)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	case token.MOD:
		if len(args) != 2 {
			return nil, kerr.NewEval("%% requires exactly 2 arguments")
		}
		a, aok := args[0].(value.Integer)
		b, bok := args[1].(value.Integer)
		if !aok || !bok {
			return nil, kerr.NewEval("%% requires integer arguments")
		}
		if b == 0 {
			return nil, kerr.NewRuntime("Modulo by zero")
		}
		return a % b, nil
	case token.POW:
		if len(args) != 2 {
			return nil, kerr.NewEval("^ requires exactly 2 arguments")
		}
		af, aok := value.AsFloat64(args[0])
		bf, bok := value.AsFloat64(args[1])
		if !aok || !bok {
			return nil, kerr.NewEval("^ requires numeric arguments")
		}
		return value.Float(math.Pow(af, bf)), nil
	}
	return nil, kerr.NewEval("unreachable arithmetic tag")
}

func negate(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Integer:
		return -t, nil
	case value.Float:
		return -t, nil
	default:
		return nil, kerr.NewEval("- requires numeric arguments")
	}
}

func divide(a, b value.Value) (value.Value, error) {
	af, aok := value.AsFloat64(a)
	bf, bok := value.AsFloat64(b)
	if !aok || !bok {
		return nil, kerr.NewEval("/ requires numeric arguments")
	}
	if bf == 0 {
		return nil, kerr.NewRuntime("Division by zero")
	}
	return value.Float(af / bf), nil
}

// reduceArith folds + and * (which accept 0+ args and have identities).
func reduceArith(args []value.Value, identity int64, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (value.Value, error) {
	if len(args) == 0 {
		return value.Integer(identity), nil
	}
	return foldArith(args, intOp, floatOp)
}

// foldArith left-folds a variadic numeric reduction over args, promoting
// the whole computation to Float the moment any operand is Float.
func foldArith(args []value.Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (value.Value, error) {
	anyFloat := false
	for _, a := range args {
		if !value.IsNumeric(a) {
			return nil, kerr.NewEval("arithmetic requires numeric arguments")
		}
		if _, ok := a.(value.Float); ok {
			anyFloat = true
		}
	}

	if anyFloat {
		acc, _ := value.AsFloat64(args[0])
		for _, a := range args[1:] {
			af, _ := value.AsFloat64(a)
			acc = floatOp(acc, af)
		}
		return value.Float(acc), nil
	}

	acc := int64(args[0].(value.Integer))
	for _, a := range args[1:] {
		acc = intOp(acc, int64(a.(value.Integer)))
	}
	return value.Integer(acc), nil
}

func evalComparison(tag token.SpecialForm, rawArgs []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	args, err := evalArgs(rawArgs, env, e)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, kerr.NewEval("%s requires at least 2 arguments", tag.String())
	}

	if tag == token.EQ {
		for i := 0; i+1 < len(args); i++ {
			if !value.Equal(args[i], args[i+1]) {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	}

	for i := 0; i+1 < len(args); i++ {
		a, aok := value.AsFloat64(args[i])
		b, bok := value.AsFloat64(args[i+1])
		if !aok || !bok {
			return nil, kerr.NewEval("%s requires numeric arguments", tag.String())
		}
		ok := a > b
		if tag == token.LT {
			ok = a < b
		}
		if !ok {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func evalConcat(rawArgs []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	args, err := evalArgs(rawArgs, env, e)
	if err != nil {
		return nil, err
	}
	var sb []byte
	for _, a := range args {
		if s, ok := a.(value.Str); ok {
			sb = append(sb, s.Text...)
		} else {
			sb = append(sb, a.Print()...)
		}
	}
	return value.Str{Text: string(sb)}, nil
}

func evalQuote(args []value.Value) (trampoline.Trampoline, error) {
	if len(args) != 1 {
		return trampoline.Trampoline{}, kerr.NewEval("quote requires exactly 1 argument")
	}
	return trampoline.Done(args[0]), nil
}

func evalIf(args []value.Value, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	if len(args) != 2 && len(args) != 3 {
		return trampoline.Trampoline{}, kerr.NewEval("if requires 2 or 3 arguments")
	}
	cond, err := runToValue(args[0], env, e)
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	if value.Truthy(cond) {
		branch := args[1]
		return trampoline.More(func() (trampoline.Trampoline, error) {
			return evalT(branch, env, e)
		}), nil
	}
	if len(args) == 3 {
		branch := args[2]
		return trampoline.More(func() (trampoline.Trampoline, error) {
			return evalT(branch, env, e)
		}), nil
	}
	return trampoline.Done(value.Nil), nil
}

func evalDo(args []value.Value, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	if len(args) == 0 {
		return trampoline.Trampoline{}, kerr.NewEval("do requires at least 1 argument")
	}
	// Each form is expanded just before it runs, so a macro defined by an
	// earlier form of this do is expanded in the forms after it.
	for _, form := range args[:len(args)-1] {
		expanded, err := expand.Expand(form, env)
		if err != nil {
			return trampoline.Trampoline{}, err
		}
		if _, err := runToValue(expanded, env, e); err != nil {
			return trampoline.Trampoline{}, err
		}
	}
	last, err := expand.Expand(args[len(args)-1], env)
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	return trampoline.More(func() (trampoline.Trampoline, error) {
		return evalT(last, env, e)
	}), nil
}

func evalDef(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 2 {
		return nil, kerr.NewEval("def requires exactly 2 arguments")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, kerr.NewEval("def requires a symbol name")
	}
	v, err := runToValue(args[1], env, e)
	if err != nil {
		return nil, err
	}
	env.Define(sym.Name, v)
	if e.store != nil && env == e.root {
		if err := e.store.Put(sym.Name, v); err != nil {
			return nil, kerr.NewRuntime("%v", err)
		}
	}
	return v, nil
}

func evalSetBang(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 2 {
		return nil, kerr.NewEval("set! requires exactly 2 arguments")
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return nil, kerr.NewEval("set! requires a symbol name")
	}
	v, err := runToValue(args[1], env, e)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(sym.Name, v); err != nil {
		return nil, err
	}
	return v, nil
}

// paramShape parses a lambda/macro parameter list: a proper list of
// Symbols optionally terminated by a single variadic Symbol following a
// bare "." Symbol.
func paramShape(paramsForm value.Value) ([]value.Symbol, *value.Symbol, error) {
	elems, ok := value.ToSlice(paramsForm)
	if !ok {
		return nil, nil, kerr.NewEval("parameter list must be a proper list")
	}

	dotIndex := -1
	for i, el := range elems {
		if sym, ok := el.(value.Symbol); ok && sym.Name == "." {
			dotIndex = i
			break
		}
	}

	if dotIndex == -1 {
		fixed := make([]value.Symbol, len(elems))
		for i, el := range elems {
			sym, ok := el.(value.Symbol)
			if !ok {
				return nil, nil, kerr.NewEval("parameter list must contain only symbols")
			}
			fixed[i] = sym
		}
		return fixed, nil, nil
	}

	if dotIndex != len(elems)-2 {
		return nil, nil, kerr.NewEval("variadic parameter list must have exactly one symbol after '.'")
	}
	fixed := make([]value.Symbol, dotIndex)
	for i, el := range elems[:dotIndex] {
		sym, ok := el.(value.Symbol)
		if !ok {
			return nil, nil, kerr.NewEval("parameter list must contain only symbols")
		}
		fixed[i] = sym
	}
	variadic, ok := elems[dotIndex+1].(value.Symbol)
	if !ok {
		return nil, nil, kerr.NewEval("variadic parameter must be a symbol")
	}
	return fixed, &variadic, nil
}

func evalLambda(args []value.Value, env *value.Environment) (value.Value, error) {
	if len(args) != 2 {
		return nil, kerr.NewEval("lambda requires exactly 2 arguments")
	}
	params, variadic, err := paramShape(args[0])
	if err != nil {
		return nil, err
	}
	return value.Lambda{Params: params, Variadic: variadic, Body: args[1], Captured: env}, nil
}

func evalMacro(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, kerr.NewEval("macro requires exactly 2 arguments")
	}
	params, variadic, err := paramShape(args[0])
	if err != nil {
		return nil, err
	}
	return value.Macro{Params: params, Variadic: variadic, Body: args[1]}, nil
}

func evalExpandMacro(args []value.Value, env *value.Environment) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("expand-macro requires exactly 1 argument")
	}
	return expand.Expand(args[0], env)
}

func evalEval(args []value.Value, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	if len(args) != 1 {
		return trampoline.Trampoline{}, kerr.NewEval("eval requires exactly 1 argument")
	}
	form, err := runToValue(args[0], env, e)
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	expanded, err := expand.Expand(form, env)
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	return evalT(expanded, env, e)
}

func evalCar(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("car requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	c, ok := v.(value.Cons)
	if !ok {
		return nil, kerr.NewEval("car requires a Cons argument")
	}
	return c.Car, nil
}

func evalCdr(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("cdr requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	c, ok := v.(value.Cons)
	if !ok {
		return nil, kerr.NewEval("cdr requires a Cons argument")
	}
	return c.Cdr, nil
}

func evalConsBuiltin(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 2 {
		return nil, kerr.NewEval("cons requires exactly 2 arguments")
	}
	vals, err := evalArgs(args, env, e)
	if err != nil {
		return nil, err
	}
	return value.Cons{Car: vals[0], Cdr: vals[1]}, nil
}

func typeName(v value.Value) string {
	switch v.(type) {
	case value.Integer:
		return "integer"
	case value.Float:
		return "float"
	case value.Str:
		return "string"
	case value.Bool:
		return "boolean"
	case value.Symbol:
		return "symbol"
	case value.NilValue:
		return "nil"
	case value.Cons:
		return "list"
	case value.Lambda:
		return "lambda"
	case value.Macro:
		return "macro"
	case value.Builtin:
		return "builtin"
	default:
		return "unknown"
	}
}

func evalTypeOf(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("type-of requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	return value.Str{Text: typeName(v)}, nil
}

func evalSymbol(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("symbol requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	s, ok := v.(value.Str)
	if !ok {
		return nil, kerr.NewEval("symbol requires a string argument")
	}
	return value.Symbol{Name: s.Text}, nil
}

func evalPrint(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("print requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	io := env.LookupIO()
	if io == nil {
		return nil, kerr.NewRuntime("no I/O adapter wired for print")
	}
	if err := io.Println(v.Print()); err != nil {
		return nil, kerr.NewRuntime("%v", err)
	}
	return v, nil
}

func evalRead(args []value.Value, env *value.Environment) (value.Value, error) {
	if len(args) != 0 {
		return nil, kerr.NewEval("read requires exactly 0 arguments")
	}
	io := env.LookupIO()
	if io == nil {
		return nil, kerr.NewRuntime("no I/O adapter wired for read")
	}
	line, err := io.ReadLine()
	if err != nil {
		return nil, kerr.NewRuntime("%v", err)
	}
	v, _, err := reader.Read(line)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func evalLoad(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("load requires exactly 1 argument")
	}
	pathVal, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	path, ok := pathVal.(value.Str)
	if !ok {
		return nil, kerr.NewEval("load requires a string path")
	}
	io := env.LookupIO()
	if io == nil {
		return nil, kerr.NewRuntime("no I/O adapter wired for load")
	}
	contents, err := io.ReadFile(path.Text)
	if err != nil {
		return nil, kerr.NewRuntime("%v", err)
	}
	forms, err := reader.ReadAll(contents)
	if err != nil {
		return nil, err
	}
	var result value.Value = value.Nil
	for _, form := range forms {
		result, err = e.Eval(form, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func evalRaise(args []value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	if len(args) != 1 {
		return nil, kerr.NewEval("raise requires exactly 1 argument")
	}
	v, err := runToValue(args[0], env, e)
	if err != nil {
		return nil, err
	}
	return nil, kerr.NewRuntime("%s", v.Print())
}
