package ast

import (
	"bytes"
	"murlang/internal/token"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}

	return out.String()
}

// Statements

type VarStatement struct {
	Token token.Token // the 'grrr' token
	Name  *Identifier
	Value Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) Pos() token.Position  { return vs.Token.Pos }
func (vs *VarStatement) String() string {
	var out bytes.Buffer

	out.WriteString(vs.TokenLiteral() + " ")
	out.WriteString(vs.Name.String())
	out.WriteString(" = ")
	if vs.Value != nil {
		out.WriteString(vs.Value.String())
	}

	return out.String()
}

// AssignStatement rebinds an existing name, array slot or struct field.
// Target is an *Identifier, *IndexExpression or *FieldExpression.
type AssignStatement struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Pos() token.Position  { return as.Target.Pos() }
func (as *AssignStatement) String() string {
	return as.Target.String() + " = " + as.Value.String()
}

type PrintStatement struct {
	Token token.Token // the 'glglrr' token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) Pos() token.Position  { return ps.Token.Pos }
func (ps *PrintStatement) String() string {
	return ps.TokenLiteral() + " " + ps.Value.String()
}

type ReturnStatement struct {
	Token       token.Token // the 'grrrtn' token
	ReturnValue Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString(rs.TokenLiteral())

	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}

	return out.String()
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

type BlockStatement struct {
	Token      token.Token // the 'mrgl' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("mrgl ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("grl")

	return out.String()
}

type IfStatement struct {
	Token       token.Token // the 'mrglif' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // nil, *BlockStatement or a chained *IfStatement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("mrglif ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Consequence.String())

	if is.Alternative != nil {
		out.WriteString(" mrglelse ")
		out.WriteString(is.Alternative.String())
	}

	return out.String()
}

type WhileStatement struct {
	Token     token.Token // the 'grrrwhile' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "grrrwhile " + ws.Condition.String() + " " + ws.Body.String()
}

type ForStatement struct {
	Token     token.Token // the 'grrrfor' token
	Init      *VarStatement
	Condition Expression
	Step      Statement
	Body      *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForStatement) String() string {
	var out bytes.Buffer

	out.WriteString("grrrfor ")
	out.WriteString(fs.Init.Name.String())
	out.WriteString(" = ")
	out.WriteString(fs.Init.Value.String())
	out.WriteString("; ")
	out.WriteString(fs.Condition.String())
	out.WriteString("; ")
	out.WriteString(fs.Step.String())
	out.WriteString(" ")
	out.WriteString(fs.Body.String())

	return out.String()
}

type ForInStatement struct {
	Token    token.Token // the 'grrrfor' token
	Variable *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForInStatement) statementNode()       {}
func (fs *ForInStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForInStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForInStatement) String() string {
	return "grrrfor " + fs.Variable.String() + " grrin " + fs.Iterable.String() + " " + fs.Body.String()
}

type SwitchCase struct {
	Token token.Token // the 'mrglcase' token
	Value Expression
	Body  *BlockStatement
}

func (sc *SwitchCase) String() string {
	return "mrglcase " + sc.Value.String() + ": " + sc.Body.String()
}

type SwitchStatement struct {
	Token   token.Token // the 'grrrswitch' token
	Subject Expression
	Cases   []*SwitchCase
	Default *BlockStatement
}

func (ss *SwitchStatement) statementNode()       {}
func (ss *SwitchStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SwitchStatement) Pos() token.Position  { return ss.Token.Pos }
func (ss *SwitchStatement) String() string {
	var out bytes.Buffer

	out.WriteString("grrrswitch ")
	out.WriteString(ss.Subject.String())
	out.WriteString(" mrgl ")
	for _, c := range ss.Cases {
		out.WriteString(c.String())
		out.WriteString(" ")
	}
	if ss.Default != nil {
		out.WriteString("mrgldefault: ")
		out.WriteString(ss.Default.String())
		out.WriteString(" ")
	}
	out.WriteString("grl")

	return out.String()
}

type FunctionStatement struct {
	Token      token.Token // the 'grrrfnrrg' token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
	IsAsync    bool
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *FunctionStatement) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fs.Parameters {
		params = append(params, p.String())
	}

	if fs.IsAsync {
		out.WriteString("mrglasync ")
	}
	out.WriteString("grrrfnrrg ")
	out.WriteString(fs.Name.String())
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(fs.Body.String())

	return out.String()
}

// FieldDecl is one `name: type` entry of a struct definition. TypeName is
// either a built-in field type word or the name of another struct.
type FieldDecl struct {
	Name     *Identifier
	TypeName string
}

type StructStatement struct {
	Token  token.Token // the 'mrrgstruct' token
	Name   *Identifier
	Fields []*FieldDecl
}

func (ss *StructStatement) statementNode()       {}
func (ss *StructStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *StructStatement) Pos() token.Position  { return ss.Token.Pos }
func (ss *StructStatement) String() string {
	fields := make([]string, 0, len(ss.Fields))
	for _, f := range ss.Fields {
		fields = append(fields, f.Name.String()+": "+f.TypeName)
	}
	return "mrrgstruct " + ss.Name.String() + " { " + strings.Join(fields, ", ") + " }"
}

type SpawnStatement struct {
	Token token.Token // the 'mrglspawn' token
	Label *Identifier
	Body  *BlockStatement
}

func (ss *SpawnStatement) statementNode()       {}
func (ss *SpawnStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SpawnStatement) Pos() token.Position  { return ss.Token.Pos }
func (ss *SpawnStatement) String() string {
	return "mrglspawn " + ss.Label.String() + " " + ss.Body.String()
}

type WaitStatement struct {
	Token  token.Token // the 'mrglwait' token
	Labels []*Identifier
}

func (ws *WaitStatement) statementNode()       {}
func (ws *WaitStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WaitStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WaitStatement) String() string {
	labels := make([]string, 0, len(ws.Labels))
	for _, l := range ws.Labels {
		labels = append(labels, l.String())
	}
	return "mrglwait " + strings.Join(labels, ", ")
}

type TryStatement struct {
	Token     token.Token // the 'mrglgl' token
	Body      *BlockStatement
	ErrorName *Identifier // nil when the catch clause names nothing
	Handler   *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) Pos() token.Position  { return ts.Token.Pos }
func (ts *TryStatement) String() string {
	var out bytes.Buffer

	out.WriteString("mrglgl ")
	out.WriteString(ts.Body.String())
	out.WriteString(" mrglurp ")
	if ts.ErrorName != nil {
		out.WriteString("(" + ts.ErrorName.String() + ") ")
	}
	out.WriteString(ts.Handler.String())

	return out.String()
}

type BreakStatement struct {
	Token token.Token // the 'blgrrstop' token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BreakStatement) String() string       { return bs.Token.Literal }

type ContinueStatement struct {
	Token token.Token // the 'blgrrkeep' token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() token.Position  { return cs.Token.Pos }
func (cs *ContinueStatement) String() string       { return cs.Token.Literal }

// Expressions

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos }
func (b *Boolean) String() string       { return b.Token.Literal }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() token.Position  { return sl.Token.Pos }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() token.Position  { return pe.Token.Pos }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() token.Position  { return ie.Token.Pos }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

type CallExpression struct {
	Token     token.Token // the callee identifier token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Position  { return ce.Token.Pos }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

// FieldValue is one `name: expr` entry of a struct literal.
type FieldValue struct {
	Name  *Identifier
	Value Expression
}

type StructLiteral struct {
	Token  token.Token // the struct name token
	Name   *Identifier
	Fields []*FieldValue
}

func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StructLiteral) Pos() token.Position  { return sl.Token.Pos }
func (sl *StructLiteral) String() string {
	fields := make([]string, 0, len(sl.Fields))
	for _, f := range sl.Fields {
		fields = append(fields, f.Name.String()+": "+f.Value.String())
	}
	return sl.Name.String() + "{" + strings.Join(fields, ", ") + "}"
}

type FieldExpression struct {
	Token    token.Token // the '.' token
	Receiver Expression
	Field    *Identifier
}

func (fe *FieldExpression) expressionNode()      {}
func (fe *FieldExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *FieldExpression) Pos() token.Position  { return fe.Token.Pos }
func (fe *FieldExpression) String() string {
	return fe.Receiver.String() + "." + fe.Field.String()
}

type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() token.Position  { return al.Token.Pos }
func (al *ArrayLiteral) String() string {
	var out bytes.Buffer

	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

type IndexExpression struct {
	Token token.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() token.Position  { return ie.Token.Pos }
func (ie *IndexExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString("[")
	out.WriteString(ie.Index.String())
	out.WriteString("])")

	return out.String()
}

// AsyncCall schedules Call on the cooperative scheduler and evaluates to a
// pending future.
type AsyncCall struct {
	Token token.Token // the 'mrglasync' token
	Call  *CallExpression
}

func (ac *AsyncCall) expressionNode()      {}
func (ac *AsyncCall) TokenLiteral() string { return ac.Token.Literal }
func (ac *AsyncCall) Pos() token.Position  { return ac.Token.Pos }
func (ac *AsyncCall) String() string       { return "mrglasync " + ac.Call.String() }

type AwaitExpression struct {
	Token token.Token // the 'mrglawait' token
	Value Expression
}

func (ae *AwaitExpression) expressionNode()      {}
func (ae *AwaitExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AwaitExpression) Pos() token.Position  { return ae.Token.Pos }
func (ae *AwaitExpression) String() string       { return "mrglawait " + ae.Value.String() }
