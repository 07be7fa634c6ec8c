package parser

import (
	"fmt"
	"murlang/internal/ast"
	"reflect"
	"strings"
)

// RenderASTAsText produces an indented, murloc-syntax representation of the AST.
// Infix and prefix expressions are fully parenthesised so precedence is visible.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			// Root level statements start at indent 0
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.VarStatement:
		return fmt.Sprintf("%sgrrr %s = %s", sp, n.Name.Value, RenderASTAsText(n.Value, 0))

	case *ast.AssignStatement:
		return fmt.Sprintf("%s%s = %s", sp, RenderASTAsText(n.Target, 0), RenderASTAsText(n.Value, 0))

	case *ast.PrintStatement:
		return fmt.Sprintf("%sglglrr %s", sp, RenderASTAsText(n.Value, 0))

	case *ast.ReturnStatement:
		if n.ReturnValue == nil {
			return sp + "grrrtn"
		}
		return fmt.Sprintf("%sgrrrtn %s", sp, RenderASTAsText(n.ReturnValue, 0))

	case *ast.ExpressionStatement:
		return sp + RenderASTAsText(n.Expression, 0)

	case *ast.BlockStatement:
		var sb strings.Builder
		sb.WriteString("mrgl\n")
		for _, s := range n.Statements {
			// Statements inside the block are indented +1
			sb.WriteString(RenderASTAsText(s, indent+1))
			sb.WriteString("\n")
		}
		// The closing word aligns with the parent's indent
		sb.WriteString(sp + "grl")
		return sb.String()

	case *ast.IfStatement:
		res := fmt.Sprintf("%smrglif %s %s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Consequence, indent))
		if n.Alternative != nil {
			// a chained else-if renders on the same line as 'mrglelse'
			res += " mrglelse " + strings.TrimLeft(RenderASTAsText(n.Alternative, indent), " ")
		}
		return res

	case *ast.WhileStatement:
		return fmt.Sprintf("%sgrrrwhile %s %s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Body, indent))

	case *ast.ForStatement:
		return fmt.Sprintf("%sgrrrfor %s = %s; %s; %s %s", sp,
			n.Init.Name.Value, RenderASTAsText(n.Init.Value, 0),
			RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Step, 0),
			RenderASTAsText(n.Body, indent))

	case *ast.ForInStatement:
		return fmt.Sprintf("%sgrrrfor %s grrin %s %s", sp, n.Variable.Value, RenderASTAsText(n.Iterable, 0), RenderASTAsText(n.Body, indent))

	case *ast.SwitchStatement:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%sgrrrswitch %s mrgl", sp, RenderASTAsText(n.Subject, 0)))
		for _, c := range n.Cases {
			sb.WriteString(fmt.Sprintf("\n%s  mrglcase %s: %s", sp, RenderASTAsText(c.Value, 0), RenderASTAsText(c.Body, indent+1)))
		}
		if n.Default != nil {
			sb.WriteString(fmt.Sprintf("\n%s  mrgldefault: %s", sp, RenderASTAsText(n.Default, indent+1)))
		}
		sb.WriteString("\n" + sp + "grl")
		return sb.String()

	case *ast.FunctionStatement:
		params := []string{}
		for _, p := range n.Parameters {
			params = append(params, p.Value)
		}
		async := ""
		if n.IsAsync {
			async = "mrglasync "
		}
		return fmt.Sprintf("%s%sgrrrfnrrg %s(%s) %s", sp, async, n.Name.Value, strings.Join(params, ", "), RenderASTAsText(n.Body, indent))

	case *ast.StructStatement:
		fields := []string{}
		for _, f := range n.Fields {
			fields = append(fields, f.Name.Value+": "+f.TypeName)
		}
		return fmt.Sprintf("%smrrgstruct %s { %s }", sp, n.Name.Value, strings.Join(fields, ", "))

	case *ast.SpawnStatement:
		return fmt.Sprintf("%smrglspawn %s %s", sp, n.Label.Value, RenderASTAsText(n.Body, indent))

	case *ast.WaitStatement:
		labels := []string{}
		for _, l := range n.Labels {
			labels = append(labels, l.Value)
		}
		return fmt.Sprintf("%smrglwait %s", sp, strings.Join(labels, ", "))

	case *ast.TryStatement:
		name := ""
		if n.ErrorName != nil {
			name = "(" + n.ErrorName.Value + ") "
		}
		return fmt.Sprintf("%smrglgl %s mrglurp %s%s", sp, RenderASTAsText(n.Body, indent), name, RenderASTAsText(n.Handler, indent))

	case *ast.BreakStatement:
		return sp + "blgrrstop"

	case *ast.ContinueStatement:
		return sp + "blgrrkeep"

	case *ast.CallExpression:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderASTAsText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", n.Function.Value, strings.Join(args, ", "))

	case *ast.AsyncCall:
		return "mrglasync " + RenderASTAsText(n.Call, 0)

	case *ast.AwaitExpression:
		return "mrglawait " + RenderASTAsText(n.Value, 0)

	case *ast.InfixExpression:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.PrefixExpression:
		return fmt.Sprintf("(%s%s)", n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.IndexExpression:
		return fmt.Sprintf("%s[%s]", RenderASTAsText(n.Left, 0), RenderASTAsText(n.Index, 0))

	case *ast.FieldExpression:
		return RenderASTAsText(n.Receiver, 0) + "." + n.Field.Value

	case *ast.Identifier:
		return n.Value
	case *ast.NumberLiteral:
		return n.Token.Literal
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.Boolean:
		return n.Token.Literal

	case *ast.ArrayLiteral:
		elems := []string{}
		for _, e := range n.Elements {
			elems = append(elems, RenderASTAsText(e, 0))
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.StructLiteral:
		fields := []string{}
		for _, f := range n.Fields {
			fields = append(fields, fmt.Sprintf("%s: %s", f.Name.Value, RenderASTAsText(f.Value, 0)))
		}
		return fmt.Sprintf("%s{%s}", n.Name.Value, strings.Join(fields, ", "))

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}
