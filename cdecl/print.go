package cdecl

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokens renders the declaration back into a classified token stream.
// Re-parsing the result under the same mode yields an equal Decl; the
// round-trip tests lean on this.
func (d Decl) Tokens() []Token {
	return d.appendTokens(nil, true)
}

func (d Decl) appendTokens(toks []Token, top bool) []Token {
	ty := d.Type

	// Array dimensions come off outermost-first, which is declaration order.
	var dims []ArrayLen
	for {
		arr, ok := ty.(Array)
		if !ok {
			break
		}
		dims = append(dims, arr.Len)
		ty = arr.Elem
	}

	nameKind := TokIdent
	if top {
		nameKind = TokName
	}

	if fp, ok := ty.(FuncPtr); ok {
		toks = appendTypeTokens(toks, fp.Ret)
		toks = append(toks, Token{Kind: TokLParen}, Token{Kind: TokStar})
		toks = append(toks, Token{Kind: nameKind, Text: d.Name})
		toks = append(toks, Token{Kind: TokRParen}, Token{Kind: TokLParen})
		if len(fp.Params) == 0 {
			toks = append(toks, Token{Kind: TokIdent, Text: "void"})
		}
		for i, param := range fp.Params {
			if i > 0 {
				toks = append(toks, Token{Kind: TokComma})
			}
			toks = param.appendTokens(toks, false)
		}
		toks = append(toks, Token{Kind: TokRParen})
	} else {
		toks = appendTypeTokens(toks, ty)
		toks = append(toks, Token{Kind: nameKind, Text: d.Name})
	}

	for _, dim := range dims {
		toks = append(toks, Token{Kind: TokLBracket})
		switch dim := dim.(type) {
		case LitLen:
			toks = append(toks, Token{Kind: TokNumber, Text: strconv.FormatUint(dim.Value, 10)})
		case ConstLen:
			toks = append(toks, Token{Kind: TokValue, Text: dim.Name})
		}
		toks = append(toks, Token{Kind: TokRBracket})
	}
	if d.BitWidth > 0 {
		toks = append(toks,
			Token{Kind: TokColon},
			Token{Kind: TokNumber, Text: strconv.Itoa(d.BitWidth)})
	}

	return toks
}

// appendTypeTokens emits a base type with its pointer and qualifier chain.
// A nil type is a void return.
func appendTypeTokens(toks []Token, ty Type) []Token {
	if ty == nil {
		return append(toks, Token{Kind: TokIdent, Text: "void"})
	}

	// Unwrap the pointer chain; ptrs ends up outermost-first.
	var ptrs []Pointer
	for {
		ptr, ok := ty.(Pointer)
		if !ok {
			break
		}
		ptrs = append(ptrs, ptr)
		ty = ptr.Elem
	}
	named := ty.(Named)

	// The innermost pointer's ConstElem qualifies the base type itself.
	if len(ptrs) > 0 && ptrs[len(ptrs)-1].ConstElem {
		toks = append(toks, Token{Kind: TokConst})
	}
	toks = append(toks, Token{Kind: TokType, Text: named.Name})
	for i := len(ptrs) - 1; i >= 0; i-- {
		toks = append(toks, Token{Kind: TokStar})
		if i > 0 && ptrs[i-1].ConstElem {
			toks = append(toks, Token{Kind: TokConst})
		}
	}

	return toks
}

func (t Named) String() string {
	return t.Name
}

func (t Pointer) String() string {
	if _, named := t.Elem.(Named); named && t.ConstElem {
		return "const " + t.Elem.String() + "*"
	}
	if t.ConstElem {
		return t.Elem.String() + " const*"
	}
	return t.Elem.String() + "*"
}

func (t Array) String() string {
	return fmt.Sprintf("%s[%s]", t.Elem, t.Len)
}

func (t FuncPtr) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	ret := "void"
	if t.Ret != nil {
		ret = t.Ret.String()
	}
	return fmt.Sprintf("%s (*)(%s)", ret, strings.Join(params, ", "))
}

func (l LitLen) String() string {
	return strconv.FormatUint(l.Value, 10)
}

func (l ConstLen) String() string {
	return l.Name
}

// String renders a pseudo-declaration: the declared name with its composed
// type, array dimensions after the name as in C.
func (d Decl) String() string {
	ty := d.Type

	var dims []string
	for {
		arr, ok := ty.(Array)
		if !ok {
			break
		}
		dims = append(dims, "["+arr.Len.String()+"]")
		ty = arr.Elem
	}

	var sb strings.Builder
	if fp, ok := ty.(FuncPtr); ok {
		ret := "void"
		if fp.Ret != nil {
			ret = fp.Ret.String()
		}
		params := make([]string, len(fp.Params))
		for i, p := range fp.Params {
			params[i] = p.String()
		}
		fmt.Fprintf(&sb, "%s (*%s)(%s)", ret, d.Name, strings.Join(params, ", "))
	} else if ty == nil {
		fmt.Fprintf(&sb, "void %s", d.Name)
	} else {
		fmt.Fprintf(&sb, "%s %s", ty, d.Name)
	}
	for _, dim := range dims {
		sb.WriteString(dim)
	}
	if d.BitWidth > 0 {
		fmt.Fprintf(&sb, ":%d", d.BitWidth)
	}

	return sb.String()
}
