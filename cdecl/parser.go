package cdecl

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNoName reports a token stream without a <name>-classified token.
	ErrNoName = errors.New("declarator has no declared name")

	// ErrMultipleNames reports more than one <name>-classified token.
	ErrMultipleNames = errors.New("declarator has multiple declared names")

	// ErrBadArrayLen reports an array dimension that is neither an integer
	// literal nor a symbolic constant reference.
	ErrBadArrayLen = errors.New("unsupported array dimension")

	// ErrSyntax reports a token stream that does not reduce to a single
	// well-formed declarator.
	ErrSyntax = errors.New("malformed declarator")

	// ErrTrailing reports leftover tokens after a complete declarator.
	ErrTrailing = errors.New("trailing tokens after declarator")
)

// Mode selects the grammar entry point. The three modes share one grammar;
// they only differ in which trailing constructs are permitted.
type Mode int

const (
	// TypeDef parses a typedef, optionally bracketed by the typedef keyword
	// and a terminating semicolon.
	TypeDef Mode = iota
	// StructMember permits trailing array dimensions and a bitfield width.
	StructMember
	// FuncParam permits trailing array dimensions.
	FuncParam
)

// Parse reduces a fixed-up token stream to one declaration. Exactly one
// TokName token must be present; it supplies the declared identifier, and
// every pointer, qualifier, array and function-pointer wrapper around it is
// applied to the base type in C declarator order.
func Parse(mode Mode, toks []Token) (Decl, error) {
	names := 0
	for _, tok := range toks {
		if tok.Kind == TokName {
			names++
		}
	}
	if names == 0 {
		return Decl{}, ErrNoName
	}
	if names > 1 {
		return Decl{}, ErrMultipleNames
	}

	p := &parser{toks: toks}
	if mode == TypeDef {
		p.accept(TokTypedef)
	}
	d, err := p.decl(mode)
	if err != nil {
		return Decl{}, err
	}
	if mode == TypeDef {
		p.accept(TokSemi)
	}
	if p.pos != len(p.toks) {
		return Decl{}, fmt.Errorf("%w: %d left", ErrTrailing, len(p.toks)-p.pos)
	}

	return d, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) accept(kind TokenKind) bool {
	if tok, ok := p.peek(); ok && tok.Kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) take(kinds ...TokenKind) (Token, bool) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, false
	}
	for _, kind := range kinds {
		if tok.Kind == kind {
			p.pos++
			return tok, true
		}
	}
	return Token{}, false
}

func (p *parser) decl(mode Mode) (Decl, error) {
	ty, constQ, err := p.baseType()
	if err != nil {
		return Decl{}, err
	}

	// Pointer chain, outermost last. A const after a star qualifies that
	// pointer, which becomes the pointee of the next wrapper.
	for p.accept(TokStar) {
		ty = Pointer{Elem: ty, ConstElem: constQ}
		constQ = p.accept(TokConst)
	}

	if p.accept(TokLParen) {
		return p.funcPtr(ty)
	}

	nameTok, ok := p.take(TokName, TokIdent)
	if !ok {
		return Decl{}, fmt.Errorf("%w: expected declared name", ErrSyntax)
	}
	d := Decl{Name: nameTok.Text}

	if mode == StructMember || mode == FuncParam {
		var dims []ArrayLen
		for p.accept(TokLBracket) {
			dim, err := p.arrayLen()
			if err != nil {
				return Decl{}, err
			}
			dims = append(dims, dim)
		}
		for i := len(dims) - 1; i >= 0; i-- {
			ty = Array{Elem: ty, Len: dims[i]}
		}
	}
	if mode == StructMember && p.accept(TokColon) {
		numTok, ok := p.take(TokNumber)
		if !ok {
			return Decl{}, fmt.Errorf("%w: expected bitfield width", ErrSyntax)
		}
		width, err := strconv.Atoi(numTok.Text)
		if err != nil {
			return Decl{}, fmt.Errorf("%w: bitfield width %q", ErrSyntax, numTok.Text)
		}
		d.BitWidth = width
	}

	d.Type = ty
	return d, nil
}

// funcPtr parses the (*name)(params) form. The opening paren has already
// been consumed and ret holds the return type parsed so far.
func (p *parser) funcPtr(ret Type) (Decl, error) {
	if !p.accept(TokStar) {
		return Decl{}, fmt.Errorf("%w: expected * in function pointer", ErrSyntax)
	}
	nameTok, ok := p.take(TokName, TokIdent)
	if !ok {
		return Decl{}, fmt.Errorf("%w: expected function pointer name", ErrSyntax)
	}
	if !p.accept(TokRParen) {
		return Decl{}, fmt.Errorf("%w: unclosed function pointer declarator", ErrSyntax)
	}
	if !p.accept(TokLParen) {
		return Decl{}, fmt.Errorf("%w: expected parameter list", ErrSyntax)
	}
	params, err := p.params()
	if err != nil {
		return Decl{}, err
	}
	if ret == Void {
		ret = nil
	}

	return Decl{Name: nameTok.Text, Type: FuncPtr{Ret: ret, Params: params}}, nil
}

func (p *parser) params() ([]Decl, error) {
	// A lone void parameter list declares no parameters.
	if tok, ok := p.peek(); ok && (tok.Kind == TokIdent || tok.Kind == TokType) && tok.Text == "void" {
		if p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == TokRParen {
			p.pos += 2
			return nil, nil
		}
	}
	if p.accept(TokRParen) {
		return nil, nil
	}

	var params []Decl
	for {
		d, err := p.decl(FuncParam)
		if err != nil {
			return nil, err
		}
		params = append(params, d)
		if p.accept(TokComma) {
			continue
		}
		if p.accept(TokRParen) {
			return params, nil
		}
		return nil, fmt.Errorf("%w: expected , or ) in parameter list", ErrSyntax)
	}
}

func (p *parser) baseType() (Type, bool, error) {
	constQ := false
	for {
		if p.accept(TokConst) {
			constQ = true
			continue
		}
		if p.accept(TokStruct) || p.accept(TokUnion) || p.accept(TokEnum) {
			continue
		}
		break
	}

	var name string
	switch {
	case p.accept(TokUnsigned):
		name = "unsigned"
	case p.accept(TokSigned):
		name = "signed"
	}
	if name != "" {
		// unsigned int, signed char and friends; the width word is optional.
		if tok, ok := p.peek(); ok && tok.Kind == TokIdent {
			p.pos++
			name += " " + tok.Text
		}
	} else {
		tok, ok := p.take(TokType, TokIdent)
		if !ok {
			return nil, false, fmt.Errorf("%w: expected base type", ErrSyntax)
		}
		name = tok.Text
	}
	if p.accept(TokConst) {
		constQ = true
	}

	return Named{Name: name}, constQ, nil
}

func (p *parser) arrayLen() (ArrayLen, error) {
	tok, ok := p.take(TokNumber, TokValue)
	if !ok {
		return nil, ErrBadArrayLen
	}
	var dim ArrayLen
	switch tok.Kind {
	case TokNumber:
		v, err := strconv.ParseUint(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadArrayLen, tok.Text)
		}
		dim = LitLen{Value: v}
	case TokValue:
		dim = ConstLen{Name: tok.Text}
	}
	if !p.accept(TokRBracket) {
		return nil, fmt.Errorf("%w: unclosed array dimension", ErrSyntax)
	}

	return dim, nil
}
