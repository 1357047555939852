package main

import "fmt"

// parser.go - Recursive-descent parser with the type checker woven in at
// each node's construction point, per the grammar and typing rules this
// compiler implements.
//
// Grounded in the teacher's hand-rolled precedence-climbing expression
// parser (one function per precedence level) generalized to the full
// C-subset grammar, and in original_source/ for the desugaring shapes
// (compound assignment via a synthesized pointer temporary, pre/post
// increment as `a+=1` / `(a+=1)-1`, subscript as `*(a+i)`) the teacher's
// own grammar never needed.

// Parser walks a token chain, consulting/mutating a SymbolTable as it
// builds the typed AST.
type Parser struct {
	tok   *Token
	lines []string
	sym   *SymbolTable

	tempCount int // synthesizes unique names for compound-assignment temporaries
}

// Parse consumes the full token chain produced by Tokenize and returns
// the top-level declaration list plus the string-literal table the
// parser built along the way.
func Parse(head *Token, lines []string) ([]ASTNode, *LiteralTable) {
	p := &Parser{tok: head.Next, lines: lines, sym: NewSymbolTable()}
	var program []ASTNode
	for p.tok.Kind != End {
		program = append(program, p.parseGlobal())
	}
	return program, p.sym.Lits
}

func (p *Parser) advance() {
	if p.tok.Next != nil {
		p.tok = p.tok.Next
	}
}

// fail reports a fatal parse error anchored at the current token.
func (p *Parser) fail(msg string) {
	fatalAt(p.tok.File, p.tok.Line, p.tok.Column, p.lines, msg)
}

func (p *Parser) expectOp(s string) {
	if p.tok.Body != s {
		p.fail(FormatExpectedToken(fmt.Sprintf("%q", s), p.tok))
	}
	p.advance()
}

func (p *Parser) expectIdent() string {
	if p.tok.Kind != Identifier {
		p.fail(MsgMissingIdentifier)
	}
	name := p.tok.Body
	p.advance()
	return name
}

// expectSemicolon closes off a statement; used everywhere a bare
// statement terminator is required rather than some other punctuator.
func (p *Parser) expectSemicolon() {
	if p.tok.Body != ";" {
		p.fail(MsgMissingSemicolon)
	}
	p.advance()
}

// expectParenOpen/expectParenClose wrap the "(" ")" pair around an
// if/while/for condition, where the generic expectOp message is less
// useful than naming the missing paren directly.
func (p *Parser) expectParenOpen() {
	if p.tok.Body != "(" {
		p.fail(MsgMissingParenOpen)
	}
	p.advance()
}

func (p *Parser) expectParenClose() {
	if p.tok.Body != ")" {
		p.fail(MsgMissingParenClose)
	}
	p.advance()
}

func (p *Parser) expectBlockOpen() {
	if p.tok.Body != "{" {
		p.fail(MsgMissingBlockOpen)
	}
	p.advance()
}

func (p *Parser) expectBlockClose() {
	if p.tok.Body != "}" {
		p.fail(MsgMissingBlockClose)
	}
	p.advance()
}

// requireCondition rejects an empty "()" condition in an if/while header;
// for's clauses are independently optional so it has no call here.
func (p *Parser) requireCondition() {
	if p.tok.Body == ")" {
		p.fail(MsgMissingCondition)
	}
}

// isTypeStart reports whether t begins a type name (the only two base
// types this compiler supports).
func isTypeStart(t *Token) bool {
	return t.Kind == Reserved && (t.Body == "int" || t.Body == "char")
}

// isLvalue reports whether node is assignable / addressable: only a
// variable reference or a dereference qualify.
func isLvalue(node ASTNode) bool {
	switch node.(type) {
	case *VarRef, *DerefExpr:
		return true
	}
	return false
}

// ---- types -----------------------------------------------------------

func (p *Parser) parseType() *CType {
	var base *CType
	switch {
	case p.tok.Kind == Reserved && p.tok.Body == "int":
		base = IntType
	case p.tok.Kind == Reserved && p.tok.Body == "char":
		base = CharType
	default:
		p.fail(MsgMissingType)
		return nil
	}
	p.advance()
	for p.tok.Body == "*" {
		base = NewPointer(base)
		p.advance()
	}
	return base
}

// parseArraySuffix parses one or more "[" (num)? "]" suffixes, returning
// one element per dimension (nil means the dimension's size was omitted,
// legal only for a local's outermost dimension with an initializer).
func (p *Parser) parseArraySuffix() []*int {
	var dims []*int
	for p.tok.Body == "[" {
		p.advance()
		var dim *int
		if p.tok.Kind == Number {
			n := p.tok.Value
			dim = &n
			p.advance()
		}
		p.expectOp("]")
		dims = append(dims, dim)
	}
	return dims
}

// buildArrayType nests dims outer-first around base, so a[2][3] builds
// array-of-2-of-(array-of-3-of-base).
func buildArrayType(base *CType, dims []*int) *CType {
	t := base
	for i := len(dims) - 1; i >= 0; i-- {
		t = NewArray(t, dims[i])
	}
	return t
}

// ---- top level ---------------------------------------------------------

// parseGlobal parses one `type ident (...)` top-level declaration: a
// function prototype/definition, or a global variable.
func (p *Parser) parseGlobal() ASTNode {
	base := p.parseType()
	name := p.expectIdent()

	if p.tok.Body == "(" {
		return p.parseFunction(base, name)
	}

	var dims []*int
	if p.tok.Body == "[" {
		dims = p.parseArraySuffix()
	}
	p.expectOp(";")

	t := base
	if len(dims) > 0 {
		for _, d := range dims {
			if d == nil {
				p.fail(fmt.Sprintf("global array %q must have an explicit size", name))
			}
		}
		t = buildArrayType(base, dims)
	}
	p.sym.DeclareGlobalVar(name, t)
	return &GlobalVarDecl{Name: name, Typ: t}
}

// parseFunction parses the parameter list and, when present, the body of
// a function whose return type and name have already been consumed.
func (p *Parser) parseFunction(retType *CType, name string) ASTNode {
	p.expectOp("(")
	var paramNames []string
	var paramTypes []*CType
	if p.tok.Body != ")" {
		for {
			pt := p.parseType()
			pname := ""
			if p.tok.Kind == Identifier {
				pname = p.tok.Body
				p.advance()
			}
			paramTypes = append(paramTypes, pt)
			paramNames = append(paramNames, pname)
			if len(paramTypes) > 6 {
				p.fail("too many parameters (at most 6 are supported)")
			}
			if p.tok.Body != "," {
				break
			}
			p.advance()
		}
	}
	p.expectOp(")")

	sig := NewFunction(retType, paramTypes)
	hasBody := p.tok.Body == "{"
	p.sym.DeclareFunction(name, sig, hasBody)

	if !hasBody {
		p.expectOp(";")
		return &FuncDecl{Name: name, ReturnType: retType, ParamTypes: paramTypes, HasBody: false}
	}

	for i, pn := range paramNames {
		if pn == "" {
			p.fail(fmt.Sprintf("parameter %d of %q needs a name in its definition", i+1, name))
		}
	}

	p.sym.BeginFunction()
	offsets := make([]int, len(paramTypes))
	for i, pt := range paramTypes {
		slot := p.sym.DeclareLocal(paramNames[i], pt)
		offsets[i] = slot.Offset
	}

	body := p.parseBlock()
	if !endsInReturn(body) {
		body.Stmts = append(body.Stmts, &ReturnStmt{Value: &NumberLit{typed: typed{Typ: IntType}, Value: 0}})
	}
	frameSize := p.sym.EndFunction()

	return &FuncDecl{
		Name: name, ParamNames: paramNames, ParamTypes: paramTypes, ParamOffsets: offsets,
		ReturnType: retType, Body: body, FrameSize: frameSize, HasBody: true,
	}
}

func endsInReturn(b *BlockStmt) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ReturnStmt)
	return ok
}

// ---- statements ----------------------------------------------------------

// parseStmt parses one `stmt` and returns the (possibly several, in the
// case of a multi-declarator or array-initializer declaration) statements
// it compiles to.
func (p *Parser) parseStmt() []ASTNode {
	switch {
	case p.tok.Body == ";":
		p.advance()
		return []ASTNode{&NopStmt{}}
	case p.tok.Body == "{":
		return []ASTNode{p.parseBlock()}
	case p.tok.Kind == Reserved && p.tok.Body == "if":
		return []ASTNode{p.parseIf()}
	case p.tok.Kind == Reserved && p.tok.Body == "while":
		return []ASTNode{p.parseWhile()}
	case p.tok.Kind == Reserved && p.tok.Body == "for":
		return []ASTNode{p.parseFor()}
	case p.tok.Kind == ReturnTok:
		return []ASTNode{p.parseReturn()}
	case isTypeStart(p.tok):
		return p.parseDeclaration()
	default:
		e := p.parseExpr()
		p.expectSemicolon()
		return []ASTNode{e}
	}
}

// parseStmtSingle collapses parseStmt's result into the single ASTNode a
// control-flow body slot requires.
func (p *Parser) parseStmtSingle() ASTNode {
	stmts := p.parseStmt()
	switch len(stmts) {
	case 0:
		return &NopStmt{}
	case 1:
		return stmts[0]
	default:
		return &BlockStmt{Stmts: stmts}
	}
}

func (p *Parser) parseBlock() *BlockStmt {
	p.expectBlockOpen()
	var stmts []ASTNode
	for p.tok.Body != "}" && p.tok.Kind != End {
		stmts = append(stmts, p.parseStmt()...)
	}
	p.expectBlockClose()
	return &BlockStmt{Stmts: stmts}
}

func (p *Parser) parseIf() ASTNode {
	p.advance()
	p.expectParenOpen()
	p.requireCondition()
	cond := p.parseExpr()
	p.expectParenClose()
	then := p.parseStmtSingle()
	var els ASTNode
	if p.tok.Kind == Reserved && p.tok.Body == "else" {
		p.advance()
		els = p.parseStmtSingle()
	}
	return &IfStmt{Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ASTNode {
	p.advance()
	p.expectParenOpen()
	p.requireCondition()
	cond := p.parseExpr()
	p.expectParenClose()
	body := p.parseStmtSingle()
	return &WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) parseFor() ASTNode {
	p.advance()
	p.expectParenOpen()
	var init, cond, post ASTNode
	if p.tok.Body != ";" {
		init = p.parseExpr()
	}
	p.expectSemicolon()
	if p.tok.Body != ";" {
		cond = p.parseExpr()
	}
	p.expectSemicolon()
	if p.tok.Body != ")" {
		post = p.parseExpr()
	}
	p.expectParenClose()
	body := p.parseStmtSingle()
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseReturn() ASTNode {
	p.advance()
	var val ASTNode
	if p.tok.Body != ";" {
		val = p.parseExpr()
	}
	p.expectSemicolon()
	return &ReturnStmt{Value: val}
}

// ---- declarations and initializers ----------------------------------

// parseDeclaration parses `type lvar-decl ("," lvar-decl)* ";"`.
func (p *Parser) parseDeclaration() []ASTNode {
	base := p.parseType()
	var stmts []ASTNode
	stmts = append(stmts, p.parseLvarDecl(base)...)
	for p.tok.Body == "," {
		p.advance()
		stmts = append(stmts, p.parseLvarDecl(base)...)
	}
	p.expectSemicolon()
	return stmts
}

// initItem is the intermediate tree an initializer parses into, before
// it is matched up against the declared type and lowered to stores.
type initItem struct {
	isString bool
	str      string
	isList   bool
	list     []initItem
	expr     ASTNode
}

func outerCount(item initItem) int {
	switch {
	case item.isString:
		return len(item.str) + 1
	case item.isList:
		return len(item.list)
	default:
		return 1
	}
}

func (p *Parser) parseInitializerTree() initItem {
	if p.tok.Kind == StringTok {
		body := p.tok.Body
		p.advance()
		return initItem{isString: true, str: body}
	}
	if p.tok.Body == "{" {
		p.advance()
		var items []initItem
		if p.tok.Body != "}" {
			items = append(items, p.parseInitializerTree())
			for p.tok.Body == "," {
				p.advance()
				if p.tok.Body == "}" {
					break
				}
				items = append(items, p.parseInitializerTree())
			}
		}
		p.expectOp("}")
		return initItem{isList: true, list: items}
	}
	return initItem{expr: p.parseAssign()}
}

// parseLvarDecl parses one `ident ("[" array-suffix)? ("=" initializer)?`
// declarator, declares it in the current function's frame, and returns
// the statements (if any) its initializer lowers to.
func (p *Parser) parseLvarDecl(base *CType) []ASTNode {
	name := p.expectIdent()

	var dims []*int
	if p.tok.Body == "[" {
		dims = p.parseArraySuffix()
	}

	var item *initItem
	if p.tok.Body == "=" {
		p.advance()
		it := p.parseInitializerTree()
		item = &it
	}

	t := base
	if len(dims) > 0 {
		if dims[0] == nil {
			if item == nil {
				p.fail(fmt.Sprintf("flexible array %q requires an initializer", name))
			}
			n := outerCount(*item)
			dims[0] = &n
		}
		for _, d := range dims[1:] {
			if d == nil {
				p.fail(fmt.Sprintf("array %q may omit only its outermost dimension", name))
			}
		}
		t = buildArrayType(base, dims)
	}

	slot := p.sym.DeclareLocal(name, t)

	var stmts []ASTNode
	if item == nil {
		return stmts
	}
	if t.Kind == Array {
		stmts = append(stmts, &ZeroClearStmt{Offset: slot.Offset, Size: t.Size()})
		p.lowerArrayInit(name, t, slot.Offset, *item, &stmts)
		return stmts
	}
	if item.isString {
		// A string literal initializing a scalar (a char*) is an ordinary
		// expression: the address of its literal-table entry.
		label := p.sym.Lits.Intern(item.str)
		item.expr = &StringLit{typed: typed{Typ: NewPointer(CharType)}, Label: label, Body: item.str}
	}
	if item.expr == nil {
		p.fail(fmt.Sprintf("invalid initializer for %q", name))
	}
	target := &VarRef{typed: typed{Typ: t}, Name: name, IsLocal: true, Offset: slot.Offset}
	stmts = append(stmts, p.newAssign(target, item.expr))
	return stmts
}

// lowerArrayInit walks item alongside t, appending one store per nonzero
// leaf to out (a string's terminating zero is stored as well). Literal
// zero leaves, elements past the end of a brace list, and elements past
// the end of a string's bytes plus its terminating zero are left
// untouched - they were already zeroed by the ZeroClearStmt emitted at
// the top of the declaration.
func (p *Parser) lowerArrayInit(name string, t *CType, baseOffset int, item initItem, out *[]ASTNode) {
	if t.Kind == Array {
		n := 0
		if t.ArrayLen != nil {
			n = *t.ArrayLen
		}
		elemType := t.Pointee
		elemSize := elemType.Size()

		if item.isString && elemType.Kind == Char {
			bytes := []byte(item.str)
			for idx := 0; idx < n; idx++ {
				var v int
				switch {
				case idx < len(bytes):
					v = int(bytes[idx])
				case idx == len(bytes):
					v = 0
				default:
					continue
				}
				target := &VarRef{typed: typed{Typ: elemType}, Name: name, IsLocal: true, Offset: baseOffset - idx*elemSize}
				*out = append(*out, p.newAssign(target, &NumberLit{typed: typed{Typ: IntType}, Value: v}))
			}
			return
		}
		if item.isString {
			// A brace-less string initializing a deeper nested char array
			// spreads across the innermost dimension; this compiler applies
			// it to the array's first element only.
			if n > 0 {
				p.lowerArrayInit(name, elemType, baseOffset, item, out)
			}
			return
		}
		if item.isList {
			for idx, sub := range item.list {
				if idx >= n {
					break
				}
				p.lowerArrayInit(name, elemType, baseOffset-idx*elemSize, sub, out)
			}
			return
		}
		p.fail("array initializer must be a brace-enclosed list or a string literal")
		return
	}

	// Scalar leaf: excess nested braces are read but only the first leaf
	// survives.
	for item.isList {
		if len(item.list) == 0 {
			return
		}
		item = item.list[0]
	}
	if item.expr == nil {
		return
	}
	if lit, ok := item.expr.(*NumberLit); ok && lit.Value == 0 {
		return
	}
	target := &VarRef{typed: typed{Typ: t}, Name: name, IsLocal: true, Offset: baseOffset}
	*out = append(*out, p.newAssign(target, item.expr))
}

// ---- expressions, precedence-climbing ---------------------------------

func (p *Parser) parseExpr() ASTNode {
	left := p.parseAssign()
	if p.tok.Body == "," {
		p.advance()
		right := p.parseExpr()
		return &CommaExpr{typed: typed{Typ: right.Type()}, Left: left, Right: right}
	}
	return left
}

var compoundAssignOps = map[string]BinOp{
	"+=": OpAdd, "-=": OpSub, "*=": OpMul, "/=": OpDiv, "%=": OpMod,
	"&=": OpBitAnd, "^=": OpBitXor, "|=": OpBitOr, "<<=": OpLShift, ">>=": OpRShift,
}

func (p *Parser) parseAssign() ASTNode {
	left := p.parseLogOr()

	if p.tok.Body == "=" {
		p.advance()
		value := p.parseAssign()
		p.checkAssignable(left)
		return p.newAssign(left, value)
	}
	if op, ok := compoundAssignOps[p.tok.Body]; ok {
		p.advance()
		value := p.parseAssign()
		p.checkAssignable(left)
		return p.desugarCompoundAssign(left, op, value)
	}
	return left
}

func (p *Parser) checkAssignable(target ASTNode) {
	if !isLvalue(target) {
		p.fail(MsgInvalidLvalue)
	}
	if target.Type().Kind == Array {
		p.fail("assignment to array")
	}
}

func (p *Parser) parseLogOr() ASTNode {
	left := p.parseLogAnd()
	for p.tok.Body == "||" {
		p.advance()
		right := p.parseLogAnd()
		left = &LogicalExpr{typed: typed{Typ: IntType}, Op: OpLogOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogAnd() ASTNode {
	left := p.parseBitOr()
	for p.tok.Body == "&&" {
		p.advance()
		right := p.parseBitOr()
		left = &LogicalExpr{typed: typed{Typ: IntType}, Op: OpLogAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitOr() ASTNode {
	left := p.parseBitXor()
	for p.tok.Body == "|" {
		p.advance()
		right := p.parseBitXor()
		left = p.newBinary(OpBitOr, left, right)
	}
	return left
}

func (p *Parser) parseBitXor() ASTNode {
	left := p.parseBitAnd()
	for p.tok.Body == "^" {
		p.advance()
		right := p.parseBitAnd()
		left = p.newBinary(OpBitXor, left, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ASTNode {
	left := p.parseEquality()
	for p.tok.Body == "&" {
		p.advance()
		right := p.parseEquality()
		left = p.newBinary(OpBitAnd, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ASTNode {
	left := p.parseRelational()
	for p.tok.Body == "==" || p.tok.Body == "!=" {
		op := OpEq
		if p.tok.Body == "!=" {
			op = OpNEq
		}
		p.advance()
		right := p.parseRelational()
		left = p.newBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseRelational() ASTNode {
	left := p.parseShift()
	for p.tok.Body == "<" || p.tok.Body == "<=" || p.tok.Body == ">" || p.tok.Body == ">=" {
		op := OpLThan
		swap := false
		switch p.tok.Body {
		case "<=":
			op = OpLEq
		case ">":
			op, swap = OpLThan, true
		case ">=":
			op, swap = OpLEq, true
		}
		p.advance()
		right := p.parseShift()
		if swap {
			left, right = right, left
		}
		left = p.newBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseShift() ASTNode {
	left := p.parseAdd()
	for p.tok.Body == "<<" || p.tok.Body == ">>" {
		op := OpLShift
		if p.tok.Body == ">>" {
			op = OpRShift
		}
		p.advance()
		right := p.parseAdd()
		left = p.newBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseAdd() ASTNode {
	left := p.parseMul()
	for p.tok.Body == "+" || p.tok.Body == "-" {
		op := OpAdd
		if p.tok.Body == "-" {
			op = OpSub
		}
		p.advance()
		right := p.parseMul()
		left = p.newBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseMul() ASTNode {
	left := p.parseUnary()
	for p.tok.Body == "*" || p.tok.Body == "/" || p.tok.Body == "%" {
		op := OpMul
		switch p.tok.Body {
		case "/":
			op = OpDiv
		case "%":
			op = OpMod
		}
		p.advance()
		right := p.parseUnary()
		left = p.newBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ASTNode {
	if p.tok.Kind == Reserved && p.tok.Body == "sizeof" {
		return p.parseSizeof()
	}
	if p.tok.Kind == Reserved {
		switch p.tok.Body {
		case "~":
			p.advance()
			operand := p.parseUnary()
			if operand.Type().IsPointerLike() {
				p.fail("bitwise complement of a pointer type")
			}
			return &UnaryExpr{typed: typed{Typ: operand.Type()}, Op: OpBitNot, Operand: operand}
		case "!":
			p.advance()
			operand := p.parseUnary()
			return &UnaryExpr{typed: typed{Typ: IntType}, Op: OpLogNot, Operand: operand}
		case "*":
			p.advance()
			operand := p.parseUnary()
			d := operand.Type().Decay()
			if !d.IsPointerLike() {
				p.fail("dereferencing a non-pointer")
			}
			return &DerefExpr{typed: typed{Typ: d.Pointee}, Pointer: operand}
		case "&":
			p.advance()
			operand := p.parseUnary()
			if !isLvalue(operand) {
				p.fail("taking address of a non-lvalue")
			}
			var rt *CType
			if operand.Type().Kind == Array {
				rt = operand.Type().Decay()
			} else {
				rt = NewPointer(operand.Type())
			}
			return &AddrExpr{typed: typed{Typ: rt}, Operand: operand}
		case "+":
			p.advance()
			return p.parseUnary()
		case "-":
			p.advance()
			operand := p.parseUnary()
			return p.newBinary(OpSub, &NumberLit{typed: typed{Typ: IntType}, Value: 0}, operand)
		case "++":
			p.advance()
			operand := p.parseUnary()
			p.checkAssignable(operand)
			return p.desugarCompoundAssign(operand, OpAdd, &NumberLit{typed: typed{Typ: IntType}, Value: 1})
		case "--":
			p.advance()
			operand := p.parseUnary()
			p.checkAssignable(operand)
			return p.desugarCompoundAssign(operand, OpSub, &NumberLit{typed: typed{Typ: IntType}, Value: 1})
		}
	}
	return p.parseTailed()
}

// parseSizeof implements `sizeof ( type ) | sizeof unary`, folding the
// result directly to a constant NumberLit since every operand type is
// already known at parse time.
func (p *Parser) parseSizeof() ASTNode {
	p.advance() // consume 'sizeof'

	if p.tok.Body == "(" && isTypeStart(p.tok.Next) {
		p.advance()
		t := p.parseType()
		p.expectOp(")")
		return &NumberLit{typed: typed{Typ: IntType}, Value: sizeofType(t)}
	}
	if isTypeStart(p.tok) {
		p.fail(MsgSizeofNeedsParens)
	}
	operand := p.parseUnary()
	return &NumberLit{typed: typed{Typ: IntType}, Value: sizeofType(operand.Type())}
}

// parseTailed implements `primary ("++"|"--")?`, desugaring the postfix
// form to `(a OP= 1) REVERSE-OP 1` so it yields the pre-increment value.
func (p *Parser) parseTailed() ASTNode {
	expr := p.parsePrimary()
	if p.tok.Body == "++" || p.tok.Body == "--" {
		p.checkAssignable(expr)
		op, reverse := OpAdd, OpSub
		if p.tok.Body == "--" {
			op, reverse = OpSub, OpAdd
		}
		p.advance()
		incremented := p.desugarCompoundAssign(expr, op, &NumberLit{typed: typed{Typ: IntType}, Value: 1})
		return p.newBinary(reverse, incremented, &NumberLit{typed: typed{Typ: IntType}, Value: 1})
	}
	return expr
}

func (p *Parser) parsePrimary() ASTNode {
	switch {
	case p.tok.Kind == Number:
		v := p.tok.Value
		p.advance()
		return &NumberLit{typed: typed{Typ: IntType}, Value: v}
	case p.tok.Kind == StringTok:
		body := p.tok.Body
		p.advance()
		label := p.sym.Lits.Intern(body)
		return &StringLit{typed: typed{Typ: NewPointer(CharType)}, Label: label, Body: body}
	case p.tok.Kind == Identifier:
		name := p.tok.Body
		p.advance()
		if p.tok.Body == "(" {
			return p.parseCall(name)
		}
		base := p.resolveIdent(name)
		if p.tok.Body == "[" {
			p.advance()
			idx := p.parseExpr()
			p.expectOp("]")
			addExpr := p.newBinary(OpAdd, base, idx)
			return &DerefExpr{typed: typed{Typ: addExpr.Type().Pointee}, Pointer: addExpr}
		}
		return base
	case p.tok.Body == "(":
		p.advance()
		if p.tok.Body == ")" {
			p.fail(MsgMissingExpression)
		}
		e := p.parseExpr()
		p.expectParenClose()
		return e
	default:
		p.fail(FormatUnexpectedToken(p.tok))
		return nil
	}
}

func (p *Parser) parseCall(name string) ASTNode {
	p.expectOp("(")
	var args []ASTNode
	if p.tok.Body != ")" {
		for {
			args = append(args, p.parseAssign())
			if len(args) > 6 {
				p.fail("too many arguments (at most 6 are supported)")
			}
			if p.tok.Body != "," {
				break
			}
			p.advance()
		}
	}
	p.expectOp(")")

	retType := IntType
	if g, ok := p.sym.LookupGlobal(name); ok && g.Kind == globalFunc {
		if len(args) != len(g.FuncType.Args) {
			p.fail(fmt.Sprintf("%q expects %d argument(s), got %d", name, len(g.FuncType.Args), len(args)))
		}
		for i, at := range g.FuncType.Args {
			args[i] = p.newCast(args[i], at)
		}
		retType = g.FuncType.ReturnType
	}
	return &CallExpr{typed: typed{Typ: retType}, Name: name, Args: args}
}

// resolveIdent looks up a bare identifier as a local, then a global
// variable, producing a "did you mean" hint on failure.
func (p *Parser) resolveIdent(name string) *VarRef {
	if lv, ok := p.sym.LookupLocal(name); ok {
		return &VarRef{typed: typed{Typ: lv.Typ}, Name: name, IsLocal: true, Offset: lv.Offset}
	}
	if g, ok := p.sym.LookupGlobal(name); ok && g.Kind == globalVar {
		return &VarRef{typed: typed{Typ: g.VarType}, Name: name, IsLocal: false}
	}

	msg := fmt.Sprintf("use of undeclared identifier %q", name)
	if hint := p.sym.FindSimilarLocal(name); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	} else if hint := p.sym.FindSimilarGlobal(name); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	} else if hint := SuggestForTypo(name); hint != "" {
		msg += " (" + hint + ")"
	}
	p.fail(msg)
	return nil
}

// ---- the inline type checker -------------------------------------------

// newCast wraps value in an explicit conversion to "to", unless it is
// already exactly that type.
func (p *Parser) newCast(value ASTNode, to *CType) ASTNode {
	if value.Type().Equal(to) {
		return value
	}
	return &CastExpr{typed: typed{Typ: to}, Operand: value}
}

// newAssign builds an AssignExpr, inserting a Cast of the value to the
// target's type.
func (p *Parser) newAssign(target, value ASTNode) *AssignExpr {
	casted := p.newCast(value, target.Type())
	return &AssignExpr{typed: typed{Typ: target.Type()}, Target: target, Value: casted}
}

// newBinary attaches the correct result type to a binary operator node:
// pointer arithmetic is resolved first; comparisons always yield int and
// tolerate pointer operands (address comparison); everything else
// converts both sides to the common type and rejects pointer operands.
func (p *Parser) newBinary(op BinOp, left, right ASTNode) *BinaryExpr {
	if op == OpAdd || op == OpSub {
		if left.Type().IsPointerLike() || right.Type().IsPointerLike() {
			return p.newPointerArith(op, left, right)
		}
	}
	if isComparison(op) {
		common := CommonType(left.Type(), right.Type())
		return &BinaryExpr{typed: typed{Typ: IntType}, Op: op, Left: p.newCast(left, common), Right: p.newCast(right, common)}
	}
	if left.Type().IsPointerLike() || right.Type().IsPointerLike() {
		p.fail("invalid operand: arithmetic/bitwise operation on a pointer type")
	}
	common := CommonType(left.Type(), right.Type())
	return &BinaryExpr{typed: typed{Typ: common}, Op: op, Left: p.newCast(left, common), Right: p.newCast(right, common)}
}

// newPointerArith resolves +/- between at least one pointer-like operand:
// pointer+int and int+pointer yield the pointer's (decayed) type;
// pointer-pointer (matching pointee size) yields int; int-pointer and
// pointer+pointer are rejected.
func (p *Parser) newPointerArith(op BinOp, left, right ASTNode) *BinaryExpr {
	lp, rp := left.Type().IsPointerLike(), right.Type().IsPointerLike()

	if lp && rp {
		if op != OpSub {
			p.fail("invalid operands to binary +: both operands are pointers")
		}
		if left.Type().Decay().Pointee.Size() != right.Type().Decay().Pointee.Size() {
			p.fail("pointer subtraction requires matching element types")
		}
		return &BinaryExpr{typed: typed{Typ: IntType}, Op: op, Left: left, Right: right}
	}
	if !lp && op == OpSub {
		p.fail("invalid operands to binary -: integer minus pointer")
	}
	ptrSide := left
	if !lp {
		ptrSide = right
	}
	return &BinaryExpr{typed: typed{Typ: ptrSide.Type().Decay()}, Op: op, Left: left, Right: right}
}

// desugarCompoundAssign builds `(tmp = &target, *tmp = *tmp OP value)`
// over a synthesized pointer-to-target-type local - this both implements
// `a OP= b` and, with OP/value fixed to Add/Sub and 1, the pre/post
// increment and decrement operators.
func (p *Parser) desugarCompoundAssign(target ASTNode, op BinOp, value ASTNode) ASTNode {
	ptrType := NewPointer(target.Type())
	tmp := p.synthesizeTemp(ptrType)

	addrAssign := p.newAssign(tmp, &AddrExpr{typed: typed{Typ: ptrType}, Operand: target})
	loadTmp := &DerefExpr{typed: typed{Typ: target.Type()}, Pointer: tmp}
	bin := p.newBinary(op, loadTmp, value)
	storeTarget := &DerefExpr{typed: typed{Typ: target.Type()}, Pointer: tmp}
	storeAssign := p.newAssign(storeTarget, bin)

	return &CommaExpr{typed: typed{Typ: storeAssign.Type()}, Left: addrAssign, Right: storeAssign}
}

// synthesizeTemp declares a nameless local of the given (pointer) type
// for use as a compound-assignment/increment scratch variable.
func (p *Parser) synthesizeTemp(t *CType) *VarRef {
	name := fmt.Sprintf(".t%d", p.tempCount)
	p.tempCount++
	slot := p.sym.DeclareLocal(name, t)
	return &VarRef{typed: typed{Typ: t}, Name: name, IsLocal: true, Offset: slot.Offset}
}
