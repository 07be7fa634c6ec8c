package evaluator

import (
	"context"
	"math"
	"murlang/internal/ast"
	"murlang/internal/object"
	"murlang/internal/runtime"
	"murlang/internal/token"
	"strings"
)

// DefaultErrorName is bound in a catch block that names no error variable.
const DefaultErrorName = "mrglerr"

// Evaluator walks the tree for one sequential context: the top-level
// program, one spawned unit or one async task.
type Evaluator struct {
	ctx      context.Context
	rt       *runtime.Runtime
	out      *printer
	observer Observer
	slot     *runtime.Slot

	envStack  []*object.Environment
	fnDepth   int // enclosing function calls or spawn bodies
	loopDepth int // enclosing loops within the current function
}

// fork returns an evaluator for a new sequential context rooted at env.
func (e *Evaluator) fork(env *object.Environment, slot *runtime.Slot) *Evaluator {
	child := &Evaluator{
		ctx:      e.ctx,
		rt:       e.rt,
		out:      e.out,
		observer: e.observer,
		slot:     slot,
	}
	child.PushEnv(env)
	return child
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("Environment stack is empty in the current frame")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

func (e *Evaluator) Eval(node ast.Node) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalProgram(node)

	case *ast.BlockStatement:
		return e.evalBlockIn(node, object.NewEnclosedEnvironment(e.CurrentEnv()))

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression)

	case *ast.VarStatement:
		val := e.Eval(node.Value)
		if isError(val) {
			return val
		}
		e.CurrentEnv().Define(node.Name.Value, val)
		return object.UNIT

	case *ast.AssignStatement:
		return e.evalAssignStatement(node)

	case *ast.PrintStatement:
		val := e.Eval(node.Value)
		if isError(val) {
			return val
		}
		e.out.println(val.Inspect())
		return object.UNIT

	case *ast.ReturnStatement:
		if e.fnDepth == 0 {
			return newError(object.InvalidControl, node.Pos(), "grrrtn outside of a function or spawn body")
		}
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: object.UNIT}
		}
		val := e.Eval(node.ReturnValue)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.IfStatement:
		return e.evalIfStatement(node)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node)

	case *ast.ForStatement:
		return e.evalForStatement(node)

	case *ast.ForInStatement:
		return e.evalForInStatement(node)

	case *ast.SwitchStatement:
		return e.evalSwitchStatement(node)

	case *ast.BreakStatement:
		if e.loopDepth == 0 {
			return newError(object.InvalidControl, node.Pos(), "blgrrstop outside of a loop")
		}
		return object.BREAK

	case *ast.ContinueStatement:
		if e.loopDepth == 0 {
			return newError(object.InvalidControl, node.Pos(), "blgrrkeep outside of a loop")
		}
		return object.CONTINUE

	case *ast.FunctionStatement:
		e.defineFunction(node)
		return object.UNIT

	case *ast.StructStatement:
		e.defineStruct(node)
		return object.UNIT

	case *ast.TryStatement:
		return e.evalTryStatement(node)

	case *ast.SpawnStatement:
		return e.evalSpawnStatement(node)

	case *ast.WaitStatement:
		return e.evalWaitStatement(node)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return object.NativeBool(node.Value)

	case *ast.Identifier:
		return e.evalIdentifier(node)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node, right)

	case *ast.InfixExpression:
		if node.Operator == "&&" || node.Operator == "||" {
			return e.evalLogicalExpression(node)
		}
		left := e.Eval(node.Left)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node, left, right)

	case *ast.CallExpression:
		return e.evalCallExpression(node)

	case *ast.AsyncCall:
		return e.evalAsyncCall(node)

	case *ast.AwaitExpression:
		return e.evalAwaitExpression(node)

	case *ast.StructLiteral:
		return e.evalStructLiteral(node)

	case *ast.FieldExpression:
		receiver := e.Eval(node.Receiver)
		if isError(receiver) {
			return receiver
		}
		return evalFieldAccess(node, receiver)

	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return object.NewArray(elements)

	case *ast.IndexExpression:
		left := e.Eval(node.Left)
		if isError(left) {
			return left
		}
		index := e.Eval(node.Index)
		if isError(index) {
			return index
		}
		return evalIndexExpression(node, left, index)
	}

	return newError(object.InvalidControl, node.Pos(), "cannot evaluate %T", node)
}

// evalProgram binds every top-level function and struct before running the
// remaining statements in order.
func (e *Evaluator) evalProgram(program *ast.Program) object.Object {
	for _, stmt := range program.Statements {
		switch stmt := stmt.(type) {
		case *ast.FunctionStatement:
			e.defineFunction(stmt)
		case *ast.StructStatement:
			e.defineStruct(stmt)
		}
	}

	var result object.Object = object.UNIT
	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *ast.FunctionStatement, *ast.StructStatement:
			continue
		}
		if result = e.Eval(stmt); isError(result) {
			return result
		}
	}
	return result
}

// evalBlockIn runs block's statements in env, stopping at the first error
// or control signal.
func (e *Evaluator) evalBlockIn(block *ast.BlockStatement, env *object.Environment) object.Object {
	e.PushEnv(env)
	defer e.PopEnv()

	var result object.Object = object.UNIT
	for _, statement := range block.Statements {
		result = e.Eval(statement)
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) defineFunction(node *ast.FunctionStatement) {
	e.CurrentEnv().Define(node.Name.Value, &object.Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        e.CurrentEnv(),
		IsAsync:    node.IsAsync,
	})
}

func (e *Evaluator) defineStruct(node *ast.StructStatement) {
	fields := make([]object.StructField, 0, len(node.Fields))
	for _, f := range node.Fields {
		fields = append(fields, object.StructField{Name: f.Name.Value, TypeName: f.TypeName})
	}
	e.CurrentEnv().Define(node.Name.Value, object.NewStructDef(node.Name.Value, fields))
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement) object.Object {
	val := e.Eval(node.Value)
	if isError(val) {
		return val
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		if _, err := e.CurrentEnv().Assign(target.Value, val); err != nil {
			return newError(object.UnboundName, target.Pos(), "'%s' was never declared with grrr", target.Value)
		}

	case *ast.IndexExpression:
		left := e.Eval(target.Left)
		if isError(left) {
			return left
		}
		arr, ok := left.(*object.Array)
		if !ok {
			return newError(object.TypeMismatch, target.Pos(), "cannot assign by index into %s", object.Kind(left))
		}
		index := e.Eval(target.Index)
		if isError(index) {
			return index
		}
		i, errObj := arrayIndex(target, index)
		if errObj != nil {
			return errObj
		}
		if !arr.Set(i, val) {
			return newError(object.IndexOutOfRange, target.Pos(), "index %d outside array of length %d", i, arr.Len())
		}

	case *ast.FieldExpression:
		receiver := e.Eval(target.Receiver)
		if isError(receiver) {
			return receiver
		}
		s, ok := receiver.(*object.Struct)
		if !ok {
			return newError(object.TypeMismatch, target.Pos(), "cannot assign field '%s' on %s", target.Field.Value, object.Kind(receiver))
		}
		idx, ok := s.Def.FieldIndex[target.Field.Value]
		if !ok {
			return newError(object.FieldMismatch, target.Pos(), "%s has no field '%s'", s.Def.Name, target.Field.Value)
		}
		if errObj := e.checkFieldType(s.Def, s.Def.Fields[idx], val, target.Pos()); errObj != nil {
			return errObj
		}
		s.Set(target.Field.Value, val)

	default:
		return newError(object.InvalidControl, node.Pos(), "cannot assign to %s", node.Target.String())
	}
	return object.UNIT
}

func (e *Evaluator) condition(expr ast.Expression) (bool, object.Object) {
	val := e.Eval(expr)
	if isError(val) {
		return false, val
	}
	b, ok := val.(*object.Boolean)
	if !ok {
		return false, newError(object.TypeMismatch, expr.Pos(), "condition must be boolean, got %s", object.Kind(val))
	}
	return b.Value, nil
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement) object.Object {
	ok, errObj := e.condition(node.Condition)
	if errObj != nil {
		return errObj
	}
	if ok {
		return e.Eval(node.Consequence)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative)
	}
	return object.UNIT
}

// loopBody evaluates one iteration. It reports whether the loop should
// stop and, if the loop itself must return, what.
func (e *Evaluator) loopBody(body *ast.BlockStatement, env *object.Environment) (bool, object.Object) {
	e.loopDepth++
	result := e.evalBlockIn(body, env)
	e.loopDepth--

	switch result.(type) {
	case *object.BreakSignal:
		return true, object.UNIT
	case *object.ContinueSignal:
		return false, nil
	case *object.ReturnValue, *object.RuntimeError:
		return true, result
	}
	return false, nil
}

func (e *Evaluator) cancelled(pos token.Position) object.Object {
	if err := e.ctx.Err(); err != nil {
		return toRuntimeError(err, pos)
	}
	return nil
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement) object.Object {
	for {
		if errObj := e.cancelled(node.Pos()); errObj != nil {
			return errObj
		}
		ok, errObj := e.condition(node.Condition)
		if errObj != nil {
			return errObj
		}
		if !ok {
			return object.UNIT
		}
		if stop, result := e.loopBody(node.Body, object.NewEnclosedEnvironment(e.CurrentEnv())); stop {
			return result
		}
	}
}

func (e *Evaluator) evalForStatement(node *ast.ForStatement) object.Object {
	loopEnv := object.NewEnclosedEnvironment(e.CurrentEnv())
	e.PushEnv(loopEnv)
	defer e.PopEnv()

	if node.Init != nil {
		if init := e.Eval(node.Init); isError(init) {
			return init
		}
	}

	for {
		if errObj := e.cancelled(node.Pos()); errObj != nil {
			return errObj
		}
		if node.Condition != nil {
			ok, errObj := e.condition(node.Condition)
			if errObj != nil {
				return errObj
			}
			if !ok {
				return object.UNIT
			}
		}
		if stop, result := e.loopBody(node.Body, object.NewEnclosedEnvironment(loopEnv)); stop {
			return result
		}
		if node.Step != nil {
			if step := e.Eval(node.Step); isError(step) {
				return step
			}
		}
	}
}

func (e *Evaluator) evalForInStatement(node *ast.ForInStatement) object.Object {
	iterable := e.Eval(node.Iterable)
	if isError(iterable) {
		return iterable
	}

	var items []object.Object
	switch it := iterable.(type) {
	case *object.Array:
		items = it.Snapshot()
	case *object.String:
		for _, r := range it.Value {
			items = append(items, &object.String{Value: string(r)})
		}
	default:
		return newError(object.TypeMismatch, node.Iterable.Pos(), "cannot iterate over %s", object.Kind(iterable))
	}

	for _, item := range items {
		if errObj := e.cancelled(node.Pos()); errObj != nil {
			return errObj
		}
		iterEnv := object.NewEnclosedEnvironment(e.CurrentEnv())
		iterEnv.Define(node.Variable.Value, item)
		if stop, result := e.loopBody(node.Body, iterEnv); stop {
			return result
		}
	}
	return object.UNIT
}

func (e *Evaluator) evalSwitchStatement(node *ast.SwitchStatement) object.Object {
	subject := e.Eval(node.Subject)
	if isError(subject) {
		return subject
	}

	for _, c := range node.Cases {
		val := e.Eval(c.Value)
		if isError(val) {
			return val
		}
		if object.Equal(subject, val) {
			return e.Eval(c.Body)
		}
	}
	if node.Default != nil {
		return e.Eval(node.Default)
	}
	return object.UNIT
}

// evalTryStatement catches any runtime error from its body except
// cancellation. Control signals pass through.
func (e *Evaluator) evalTryStatement(node *ast.TryStatement) object.Object {
	result := e.Eval(node.Body)

	rtErr, ok := result.(*object.RuntimeError)
	if !ok || rtErr.Kind == object.Cancelled {
		return result
	}

	name := DefaultErrorName
	if node.ErrorName != nil {
		name = node.ErrorName.Value
	}
	catchEnv := object.NewEnclosedEnvironment(e.CurrentEnv())
	catchEnv.Define(name, rtErr.AsStruct())
	return e.evalBlockIn(node.Handler, catchEnv)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier) object.Object {
	if val, ok := e.CurrentEnv().Get(node.Value); ok {
		return val
	}
	if builtin, ok := builtins[node.Value]; ok {
		return builtin
	}
	return newError(object.UnboundName, node.Pos(), "'%s'", node.Value)
}

func (e *Evaluator) evalLogicalExpression(node *ast.InfixExpression) object.Object {
	left := e.Eval(node.Left)
	if isError(left) {
		return left
	}
	lb, ok := left.(*object.Boolean)
	if !ok {
		return newError(object.TypeMismatch, node.Pos(), "'%s' needs boolean operands, got %s", node.Operator, object.Kind(left))
	}
	if node.Operator == "&&" && !lb.Value {
		return object.FALSE
	}
	if node.Operator == "||" && lb.Value {
		return object.TRUE
	}

	right := e.Eval(node.Right)
	if isError(right) {
		return right
	}
	rb, ok := right.(*object.Boolean)
	if !ok {
		return newError(object.TypeMismatch, node.Pos(), "'%s' needs boolean operands, got %s", node.Operator, object.Kind(right))
	}
	return rb
}

func evalPrefixExpression(node *ast.PrefixExpression, right object.Object) object.Object {
	switch node.Operator {
	case "!":
		if b, ok := right.(*object.Boolean); ok {
			return object.NativeBool(!b.Value)
		}
	case "-":
		if n, ok := right.(*object.Number); ok {
			return &object.Number{Value: -n.Value}
		}
	}
	return newError(object.TypeMismatch, node.Pos(), "cannot apply '%s' to %s", node.Operator, object.Kind(right))
}

func evalInfixExpression(node *ast.InfixExpression, left, right object.Object) object.Object {
	switch node.Operator {
	case "==":
		return object.NativeBool(object.Equal(left, right))
	case "!=":
		return object.NativeBool(!object.Equal(left, right))
	case "grrin":
		return evalContainment(node, left, right)
	}

	ln, lok := left.(*object.Number)
	rn, rok := right.(*object.Number)
	if lok && rok {
		return evalNumberInfixExpression(node, ln.Value, rn.Value)
	}

	if node.Operator == "+" {
		_, ls := left.(*object.String)
		_, rs := right.(*object.String)
		if ls || rs {
			return &object.String{Value: left.Inspect() + right.Inspect()}
		}
		la, laok := left.(*object.Array)
		ra, raok := right.(*object.Array)
		if laok && raok {
			return object.NewArray(append(la.Snapshot(), ra.Snapshot()...))
		}
	}

	if l, ok := left.(*object.String); ok {
		if r, ok := right.(*object.String); ok {
			switch node.Operator {
			case "<":
				return object.NativeBool(l.Value < r.Value)
			case ">":
				return object.NativeBool(l.Value > r.Value)
			case "<=":
				return object.NativeBool(l.Value <= r.Value)
			case ">=":
				return object.NativeBool(l.Value >= r.Value)
			}
		}
	}

	return newError(object.TypeMismatch, node.Pos(), "cannot apply '%s' to %s and %s",
		node.Operator, object.Kind(left), object.Kind(right))
}

func evalNumberInfixExpression(node *ast.InfixExpression, l, r float64) object.Object {
	switch node.Operator {
	case "+":
		return &object.Number{Value: l + r}
	case "-":
		return &object.Number{Value: l - r}
	case "*":
		return &object.Number{Value: l * r}
	case "/":
		if r == 0 {
			return newError(object.DivisionByZero, node.Pos(), "cannot divide %s by zero", formatNumber(l))
		}
		return &object.Number{Value: l / r}
	case "%":
		if r == 0 {
			return newError(object.DivisionByZero, node.Pos(), "cannot take %s modulo zero", formatNumber(l))
		}
		return &object.Number{Value: math.Mod(l, r)}
	case "<":
		return object.NativeBool(l < r)
	case ">":
		return object.NativeBool(l > r)
	case "<=":
		return object.NativeBool(l <= r)
	case ">=":
		return object.NativeBool(l >= r)
	}
	return newError(object.TypeMismatch, node.Pos(), "unknown operator '%s' for numbers", node.Operator)
}

func evalContainment(node *ast.InfixExpression, needle, haystack object.Object) object.Object {
	switch h := haystack.(type) {
	case *object.Array:
		for _, el := range h.Snapshot() {
			if object.Equal(needle, el) {
				return object.TRUE
			}
		}
		return object.FALSE
	case *object.String:
		if n, ok := needle.(*object.String); ok {
			return object.NativeBool(strings.Contains(h.Value, n.Value))
		}
		return newError(object.TypeMismatch, node.Pos(), "only text can be found in text, got %s", object.Kind(needle))
	}
	return newError(object.TypeMismatch, node.Pos(), "grrin needs an array or text, got %s", object.Kind(haystack))
}

func (e *Evaluator) evalExpressions(exps []ast.Expression) []object.Object {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

// evalCallArguments resolves the callee and its arguments, left to right.
func (e *Evaluator) evalCallArguments(node *ast.CallExpression) (object.Object, []object.Object, object.Object) {
	fn := e.evalIdentifier(node.Function)
	if isError(fn) {
		return nil, nil, fn
	}
	args := e.evalExpressions(node.Arguments)
	if len(args) == 1 && isError(args[0]) {
		return nil, nil, args[0]
	}
	return fn, args, nil
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression) object.Object {
	fn, args, errObj := e.evalCallArguments(node)
	if errObj != nil {
		return errObj
	}
	if f, ok := fn.(*object.Function); ok && f.IsAsync {
		return e.scheduleCall(node, fn, args)
	}
	return e.applyFunction(fn, args, node)
}

func (e *Evaluator) applyFunction(fnObj object.Object, args []object.Object, call *ast.CallExpression) object.Object {
	switch fn := fnObj.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return newError(object.ArityMismatch, call.Pos(), "%s takes %d arguments, got %d",
				fn.Name, len(fn.Parameters), len(args))
		}

		env := object.NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Parameters {
			env.Define(param.Value, args[i])
		}

		savedLoops := e.loopDepth
		e.loopDepth = 0
		e.fnDepth++
		result := e.evalBlockIn(fn.Body, env)
		e.fnDepth--
		e.loopDepth = savedLoops

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.RuntimeError:
			return result.WithFrame(fn.Name, call.Pos())
		}
		return object.UNIT

	case *object.Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return newError(object.ArityMismatch, call.Pos(), "%s takes %d arguments, got %d",
				fn.Name, fn.Arity, len(args))
		}
		result := fn.Fn(args...)
		if rtErr, ok := result.(*object.RuntimeError); ok && rtErr.Pos.Line == 0 {
			rtErr.Pos = call.Pos()
		}
		return result

	default:
		return newError(object.TypeMismatch, call.Pos(), "'%s' is %s, not a function",
			call.Function.Value, object.Kind(fnObj))
	}
}

func (e *Evaluator) evalStructLiteral(node *ast.StructLiteral) object.Object {
	val, ok := e.CurrentEnv().Get(node.Name.Value)
	if !ok {
		return newError(object.UnboundName, node.Pos(), "no struct named '%s'", node.Name.Value)
	}
	def, ok := val.(*object.StructDef)
	if !ok {
		return newError(object.TypeMismatch, node.Pos(), "'%s' is %s, not a struct", node.Name.Value, object.Kind(val))
	}

	fields := make(map[string]object.Object, len(node.Fields))
	for _, fv := range node.Fields {
		name := fv.Name.Value
		if !def.HasField(name) {
			return newError(object.FieldMismatch, fv.Name.Pos(), "%s has no field '%s'", def.Name, name)
		}
		if _, dup := fields[name]; dup {
			return newError(object.FieldMismatch, fv.Name.Pos(), "field '%s' given twice", name)
		}
		v := e.Eval(fv.Value)
		if isError(v) {
			return v
		}
		if errObj := e.checkFieldType(def, def.Fields[def.FieldIndex[name]], v, fv.Value.Pos()); errObj != nil {
			return errObj
		}
		fields[name] = v
	}

	var missing []string
	for _, f := range def.Fields {
		if _, ok := fields[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return newError(object.FieldMismatch, node.Pos(), "%s is missing %s", def.Name, strings.Join(missing, ", "))
	}
	return object.NewStruct(def, fields)
}

// checkFieldType enforces the primitive field types and struct-typed
// fields. Any other declared type name accepts every value.
func (e *Evaluator) checkFieldType(def *object.StructDef, field object.StructField, v object.Object, pos token.Position) object.Object {
	var ok bool
	switch field.TypeName {
	case object.FieldNumber:
		_, ok = v.(*object.Number)
	case object.FieldText:
		_, ok = v.(*object.String)
	case object.FieldBool:
		_, ok = v.(*object.Boolean)
	case object.FieldArray:
		_, ok = v.(*object.Array)
	default:
		other, found := e.CurrentEnv().Get(field.TypeName)
		if _, isDef := other.(*object.StructDef); !found || !isDef {
			return nil
		}
		s, isStruct := v.(*object.Struct)
		ok = isStruct && s.Def.Name == field.TypeName
	}
	if ok {
		return nil
	}
	return newError(object.TypeMismatch, pos, "%s.%s expects %s, got %s",
		def.Name, field.Name, field.TypeName, object.Kind(v))
}

func evalFieldAccess(node *ast.FieldExpression, receiver object.Object) object.Object {
	s, ok := receiver.(*object.Struct)
	if !ok {
		return newError(object.TypeMismatch, node.Pos(), "cannot read field '%s' of %s", node.Field.Value, object.Kind(receiver))
	}
	v, ok := s.Get(node.Field.Value)
	if !ok {
		return newError(object.FieldMismatch, node.Pos(), "%s has no field '%s'", s.Def.Name, node.Field.Value)
	}
	return v
}

func arrayIndex(node *ast.IndexExpression, index object.Object) (int, object.Object) {
	n, ok := index.(*object.Number)
	if !ok {
		return 0, newError(object.TypeMismatch, node.Pos(), "index must be a number, got %s", object.Kind(index))
	}
	if n.Value != math.Trunc(n.Value) || math.IsInf(n.Value, 0) {
		return 0, newError(object.TypeMismatch, node.Pos(), "index must be a whole number, got %s", n.Inspect())
	}
	return int(n.Value), nil
}

func evalIndexExpression(node *ast.IndexExpression, left, index object.Object) object.Object {
	i, errObj := arrayIndex(node, index)

	switch l := left.(type) {
	case *object.Array:
		if errObj != nil {
			return errObj
		}
		v, ok := l.Get(i)
		if !ok {
			return newError(object.IndexOutOfRange, node.Pos(), "index %d outside array of length %d", i, l.Len())
		}
		return v
	case *object.String:
		if errObj != nil {
			return errObj
		}
		runes := []rune(l.Value)
		if i < 0 || i >= len(runes) {
			return newError(object.IndexOutOfRange, node.Pos(), "index %d outside text of length %d", i, len(runes))
		}
		return &object.String{Value: string(runes[i])}
	}
	return newError(object.TypeMismatch, node.Pos(), "cannot index into %s", object.Kind(left))
}

func newError(kind object.ErrorKind, pos token.Position, format string, a ...interface{}) *object.RuntimeError {
	return object.NewRuntimeError(kind, pos, format, a...)
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

// isSignal reports whether obj must stop the enclosing block.
func isSignal(obj object.Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case object.ERROR_OBJ, object.RETURN_VALUE_OBJ, object.BREAK_OBJ, object.CONTINUE_OBJ:
		return true
	}
	return false
}

func formatNumber(v float64) string {
	return (&object.Number{Value: v}).Inspect()
}
