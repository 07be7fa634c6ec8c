package parser

import (
	"fmt"
	"murlang/internal/ast"
	"murlang/internal/lexer"
	"murlang/internal/token"
	"strconv"
)

const (
	_           int = iota
	LOWEST          // lowest binding power
	LOGICAL_OR      // ||
	LOGICAL_AND     // &&
	EQUALS          // == !=
	COMPARISON      // > < >= <= grrin
	SUM             // + -
	PRODUCT         // * / %
	PREFIX          // -X or !X
	FIELD           // receiver.field
	INDEX           // array[index]
)

var precedences = map[token.TokenType]int{
	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,
	token.EQ:          EQUALS,
	token.NOT_EQ:      EQUALS,
	token.LT:          COMPARISON,
	token.LT_EQ:       COMPARISON,
	token.GT:          COMPARISON,
	token.GT_EQ:       COMPARISON,
	token.IN:          COMPARISON,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.SLASH:       PRODUCT,
	token.ASTERISK:    PRODUCT,
	token.PERCENT:     PRODUCT,
	token.PERIOD:      FIELD,
	token.LBRACKET:    INDEX,
}

// ParseError is the first syntax error found in a program; parsing stops there.
type ParseError struct {
	Pos      token.Position
	Expected string
	Found    string
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Pos, e.Message)
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	read   int
	err    *ParseError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Parse tokenizes and parses source. The returned error is a
// *lexer.LexError or a *ParseError.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	program := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return program, nil
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF, Pos: token.Position{Line: 1, Column: 1}}
		if len(tokens) > 0 {
			eof.Pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, eof)
	}

	p := &Parser{tokens: tokens}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.ASYNC, p.parseAsyncCall)
	p.registerPrefix(token.AWAIT, p.parseAwaitExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.PERCENT, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LOGICAL_AND, p.parseInfixExpression)
	p.registerInfix(token.LOGICAL_OR, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.IN, p.parseInfixExpression)

	p.registerInfix(token.PERIOD, p.parseFieldExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.read < len(p.tokens) {
		p.peekToken = p.tokens[p.read]
		p.read++
	} else {
		p.peekToken = p.tokens[len(p.tokens)-1]
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// Err returns the first syntax error, or nil.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case token.NUMBER:
		return "number " + tok.Literal
	case token.STRING:
		return "text " + strconv.Quote(tok.Literal)
	}
	return "'" + tok.Literal + "'"
}

// addError records the first error only; everything after it is noise.
func (p *Parser) addError(at token.Token, expected string) {
	if p.err != nil {
		return
	}
	found := describe(at)
	p.err = &ParseError{
		Pos:      at.Pos,
		Expected: expected,
		Found:    found,
		Message:  fmt.Sprintf("expected %s, found %s", expected, found),
	}
}

func (p *Parser) peekError(t token.TokenType) {
	expected := "'" + token.Spelling(t) + "'"
	if t == token.IDENT {
		expected = "a name"
	}
	p.addError(p.peekToken, expected)
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	} else {
		p.peekError(t)
		return false
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.FUNCTION:
		return p.parseFunctionStatement(false)
	case token.ASYNC:
		if p.peekTokenIs(token.FUNCTION) {
			p.nextToken()
			return p.parseFunctionStatement(true)
		}
		return p.parseExpressionStatement()
	case token.STRUCT:
		return p.parseStructStatement()
	case token.SPAWN:
		return p.parseSpawnStatement()
	case token.WAIT:
		return p.parseWaitStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.curToken}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.curToken}
	case token.BEGIN:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	stmt := &ast.VarStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	stmt := &ast.PrintStatement{Token: p.curToken}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	p.skipSemicolon()

	return stmt
}

// startsExpression reports whether t can open an expression.
func startsExpression(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.NUMBER, token.STRING, token.TRUE, token.FALSE,
		token.BANG, token.MINUS, token.LPAREN, token.LBRACKET, token.ASYNC, token.AWAIT:
		return true
	}
	return false
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if startsExpression(p.peekToken.Type) {
		p.nextToken()
		stmt.ReturnValue = p.parseExpression(LOWEST)
	}

	p.skipSemicolon()

	return stmt
}

// parseExpressionStatement also covers assignment, which starts with an
// expression naming the target.
func (p *Parser) parseExpressionStatement() ast.Statement {
	first := p.curToken

	expr := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		switch expr.(type) {
		case *ast.Identifier, *ast.IndexExpression, *ast.FieldExpression:
		default:
			p.addError(p.peekToken, "a name, index or field to assign to")
			return nil
		}
		p.nextToken()
		stmt := &ast.AssignStatement{Token: p.curToken, Target: expr}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		p.skipSemicolon()
		return stmt
	}

	p.skipSemicolon()

	return &ast.ExpressionStatement{Token: first, Expression: expr}
}

// parseBlockStatement expects curToken on 'mrgl' and leaves it on the
// matching 'grl'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.END) {
		if p.curTokenIs(token.EOF) {
			p.addError(p.curToken, "'grl' to close the block opened at "+block.Token.Pos.String())
			return nil
		}
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block
}

func (p *Parser) expectBlock() *ast.BlockStatement {
	if !p.expectPeek(token.BEGIN) {
		return nil
	}
	return p.parseBlockStatement()
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	stmt.Consequence = p.expectBlock()
	if p.err != nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else {
			stmt.Alternative = p.expectBlock()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	stmt.Body = p.expectBlock()

	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	forToken := p.curToken

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	variable := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	switch {
	case p.peekTokenIs(token.IN):
		stmt := &ast.ForInStatement{Token: forToken, Variable: variable}
		p.nextToken()
		p.nextToken()
		stmt.Iterable = p.parseExpression(LOWEST)
		stmt.Body = p.expectBlock()
		return stmt

	case p.peekTokenIs(token.ASSIGN):
		stmt := &ast.ForStatement{Token: forToken}
		init := &ast.VarStatement{Token: forToken, Name: variable}
		p.nextToken()
		p.nextToken()
		init.Value = p.parseExpression(LOWEST)
		stmt.Init = init

		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)

		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		p.nextToken()
		stmt.Step = p.parseExpressionStatement()
		if p.err != nil {
			return nil
		}

		stmt.Body = p.expectBlock()
		return stmt
	}

	p.addError(p.peekToken, "'grrin' or '=' after the loop variable")
	return nil
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}

	p.nextToken()
	stmt.Subject = p.parseExpression(LOWEST)

	if !p.expectPeek(token.BEGIN) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.END) {
		switch p.curToken.Type {
		case token.SEMICOLON:
			p.nextToken()
		case token.CASE:
			c := &ast.SwitchCase{Token: p.curToken}
			p.nextToken()
			c.Value = p.parseExpression(LOWEST)
			if !p.expectPeek(token.COLON) {
				return nil
			}
			c.Body = p.parseCaseBody()
			if p.err != nil {
				return nil
			}
			stmt.Cases = append(stmt.Cases, c)
		case token.DEFAULT:
			if stmt.Default != nil {
				p.addError(p.curToken, "one 'mrgldefault' per switch")
				return nil
			}
			if !p.expectPeek(token.COLON) {
				return nil
			}
			stmt.Default = p.parseCaseBody()
			if p.err != nil {
				return nil
			}
		default:
			p.addError(p.curToken, "'mrglcase', 'mrgldefault' or 'grl'")
			return nil
		}
	}

	return stmt
}

// parseCaseBody collects statements after a case colon up to the next
// case, default or the closing 'grl', leaving curToken on that token.
func (p *Parser) parseCaseBody() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) && !p.curTokenIs(token.END) {
		if p.curTokenIs(token.EOF) {
			p.addError(p.curToken, "'grl' to close the switch")
			return nil
		}
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block
}

func (p *Parser) parseFunctionStatement(isAsync bool) *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken, IsAsync: isAsync}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseFunctionParameters()
	if p.err != nil {
		return nil
	}

	stmt.Body = p.expectBlock()

	return stmt
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return identifiers
}

// parseStructStatement accepts both `mrgl ... grl` and `{ ... }` bodies.
func (p *Parser) parseStructStatement() *ast.StructStatement {
	stmt := &ast.StructStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	var closing token.TokenType
	switch {
	case p.peekTokenIs(token.BEGIN):
		closing = token.END
	case p.peekTokenIs(token.LBRACE):
		closing = token.RBRACE
	default:
		p.addError(p.peekToken, "'mrgl' or '{' to open the struct fields")
		return nil
	}
	p.nextToken()

	for !p.peekTokenIs(closing) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.FieldDecl{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		if !p.curTokenIs(token.IDENT) && !token.IsFieldType(p.curToken.Type) {
			p.addError(p.curToken, "a field type")
			return nil
		}
		field.TypeName = p.curToken.Literal
		stmt.Fields = append(stmt.Fields, field)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(closing) {
		return nil
	}

	return stmt
}

func (p *Parser) parseSpawnStatement() *ast.SpawnStatement {
	stmt := &ast.SpawnStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Label = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	stmt.Body = p.expectBlock()

	return stmt
}

func (p *Parser) parseWaitStatement() *ast.WaitStatement {
	stmt := &ast.WaitStatement{Token: p.curToken}

	bracketed := p.peekTokenIs(token.LBRACKET)
	if bracketed {
		p.nextToken()
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Labels = append(stmt.Labels, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Labels = append(stmt.Labels, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if bracketed && !p.expectPeek(token.RBRACKET) {
		return nil
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.curToken}

	stmt.Body = p.expectBlock()
	if p.err != nil {
		return nil
	}

	if !p.expectPeek(token.CATCH) {
		return nil
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.ErrorName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	stmt.Handler = p.expectBlock()

	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError(p.curToken, "an expression")
		return nil
	}
	leftExp := prefix()

	for p.err == nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

// parseIdentifier also recognises calls `name(args)` and struct literals
// `Name{field: expr}`, both of which start with a bare name.
func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		return p.parseCallExpression(ident)
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		return p.parseStructLiteral(ident)
	}

	return ident
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken, "a number")
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseCallExpression(function *ast.Identifier) ast.Expression {
	exp := &ast.CallExpression{Token: function.Token, Function: function}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.err == nil && p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	lit := &ast.StructLiteral{Token: name.Token, Name: name}

	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.FieldValue{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		lit.Fields = append(lit.Fields, field)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	return lit
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}

	array.Elements = p.parseExpressionList(token.RBRACKET)

	return array
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	return exp
}

func (p *Parser) parseFieldExpression(receiver ast.Expression) ast.Expression {
	exp := &ast.FieldExpression{Token: p.curToken, Receiver: receiver}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	return exp
}

func (p *Parser) parseAsyncCall() ast.Expression {
	exp := &ast.AsyncCall{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	callee := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	exp.Call = p.parseCallExpression(callee).(*ast.CallExpression)

	return exp
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	exp := &ast.AwaitExpression{Token: p.curToken}

	p.nextToken()
	exp.Value = p.parseExpression(PREFIX)

	return exp
}
