package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"murlang/internal/ast"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a machine-centric map structure.
// Every node carries its type name and source position.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.VarStatement:
		return nodeMap("VarStatement", n, map[string]interface{}{
			"name":  n.Name.Value,
			"value": WalkAST(n.Value),
		})

	case *ast.AssignStatement:
		return nodeMap("AssignStatement", n, map[string]interface{}{
			"target": WalkAST(n.Target),
			"value":  WalkAST(n.Value),
		})

	case *ast.PrintStatement:
		return nodeMap("PrintStatement", n, map[string]interface{}{
			"value": WalkAST(n.Value),
		})

	case *ast.ReturnStatement:
		return nodeMap("ReturnStatement", n, map[string]interface{}{
			"returnValue": WalkAST(n.ReturnValue),
		})

	case *ast.ExpressionStatement:
		return nodeMap("ExpressionStatement", n, map[string]interface{}{
			"expression": WalkAST(n.Expression),
		})

	case *ast.BlockStatement:
		return nodeMap("BlockStatement", n, map[string]interface{}{
			"statements": walkStatements(n.Statements),
		})

	case *ast.IfStatement:
		return nodeMap("IfStatement", n, map[string]interface{}{
			"condition":   WalkAST(n.Condition),
			"consequence": WalkAST(n.Consequence),
			"alternative": WalkAST(n.Alternative),
		})

	case *ast.WhileStatement:
		return nodeMap("WhileStatement", n, map[string]interface{}{
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		})

	case *ast.ForStatement:
		return nodeMap("ForStatement", n, map[string]interface{}{
			"init":      WalkAST(n.Init),
			"condition": WalkAST(n.Condition),
			"step":      WalkAST(n.Step),
			"body":      WalkAST(n.Body),
		})

	case *ast.ForInStatement:
		return nodeMap("ForInStatement", n, map[string]interface{}{
			"variable": n.Variable.Value,
			"iterable": WalkAST(n.Iterable),
			"body":     WalkAST(n.Body),
		})

	case *ast.SwitchStatement:
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = map[string]interface{}{
				"type":     "SwitchCase",
				"position": c.Token.Pos.String(),
				"value":    WalkAST(c.Value),
				"body":     WalkAST(c.Body),
			}
		}
		return nodeMap("SwitchStatement", n, map[string]interface{}{
			"subject": WalkAST(n.Subject),
			"cases":   cases,
			"default": WalkAST(n.Default),
		})

	case *ast.FunctionStatement:
		params := make([]interface{}, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = p.Value
		}
		return nodeMap("FunctionStatement", n, map[string]interface{}{
			"name":       n.Name.Value,
			"parameters": params,
			"async":      n.IsAsync,
			"body":       WalkAST(n.Body),
		})

	case *ast.StructStatement:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{
				"name": f.Name.Value,
				"type": f.TypeName,
			}
		}
		return nodeMap("StructStatement", n, map[string]interface{}{
			"name":   n.Name.Value,
			"fields": fields,
		})

	case *ast.SpawnStatement:
		return nodeMap("SpawnStatement", n, map[string]interface{}{
			"label": n.Label.Value,
			"body":  WalkAST(n.Body),
		})

	case *ast.WaitStatement:
		labels := make([]interface{}, len(n.Labels))
		for i, l := range n.Labels {
			labels[i] = l.Value
		}
		return nodeMap("WaitStatement", n, map[string]interface{}{
			"labels": labels,
		})

	case *ast.TryStatement:
		var name interface{}
		if n.ErrorName != nil {
			name = n.ErrorName.Value
		}
		return nodeMap("TryStatement", n, map[string]interface{}{
			"body":      WalkAST(n.Body),
			"errorName": name,
			"handler":   WalkAST(n.Handler),
		})

	case *ast.BreakStatement:
		return nodeMap("BreakStatement", n, nil)

	case *ast.ContinueStatement:
		return nodeMap("ContinueStatement", n, nil)

	case *ast.Identifier:
		return nodeMap("Identifier", n, map[string]interface{}{
			"value": n.Value,
		})

	case *ast.Boolean:
		return nodeMap("Boolean", n, map[string]interface{}{
			"value": n.Value,
		})

	case *ast.NumberLiteral:
		return nodeMap("NumberLiteral", n, map[string]interface{}{
			"value": n.Value,
		})

	case *ast.StringLiteral:
		return nodeMap("StringLiteral", n, map[string]interface{}{
			"value": n.Value,
		})

	case *ast.PrefixExpression:
		return nodeMap("PrefixExpression", n, map[string]interface{}{
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		})

	case *ast.InfixExpression:
		return nodeMap("InfixExpression", n, map[string]interface{}{
			"operator": n.Operator,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		})

	case *ast.CallExpression:
		return nodeMap("CallExpression", n, map[string]interface{}{
			"function":  n.Function.Value,
			"arguments": walkExpressions(n.Arguments),
		})

	case *ast.AsyncCall:
		return nodeMap("AsyncCall", n, map[string]interface{}{
			"call": WalkAST(n.Call),
		})

	case *ast.AwaitExpression:
		return nodeMap("AwaitExpression", n, map[string]interface{}{
			"value": WalkAST(n.Value),
		})

	case *ast.StructLiteral:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{
				"name":  f.Name.Value,
				"value": WalkAST(f.Value),
			}
		}
		return nodeMap("StructLiteral", n, map[string]interface{}{
			"name":   n.Name.Value,
			"fields": fields,
		})

	case *ast.FieldExpression:
		return nodeMap("FieldExpression", n, map[string]interface{}{
			"receiver": WalkAST(n.Receiver),
			"field":    n.Field.Value,
		})

	case *ast.ArrayLiteral:
		return nodeMap("ArrayLiteral", n, map[string]interface{}{
			"elements": walkExpressions(n.Elements),
		})

	case *ast.IndexExpression:
		return nodeMap("IndexExpression", n, map[string]interface{}{
			"left":  WalkAST(n.Left),
			"index": WalkAST(n.Index),
		})

	default:
		return map[string]interface{}{
			"type":  "Unknown",
			"value": fmt.Sprintf("%T", node),
		}
	}
}

func nodeMap(kind string, node ast.Node, fields map[string]interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"type":     kind,
		"position": node.Pos().String(),
		"token":    node.TokenLiteral(),
	}
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func walkStatements(stmts []ast.Statement) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = WalkAST(s)
	}
	return result
}

func walkExpressions(exprs []ast.Expression) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = WalkAST(e)
	}
	return result
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}
