package cdecl

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedElement reports a declarator element the lexer does not
	// understand: an unknown tag, or a wrapped element whose content is not
	// exactly one text run.
	ErrUnexpectedElement = errors.New("unexpected element in declarator")

	// ErrBadToken reports a character the raw-text tokenizer cannot classify.
	ErrBadToken = errors.New("unrecognized declarator token")
)

// TokenKind classifies one declarator token.
type TokenKind int

const (
	// TokType is a type name wrapped in a <type> element.
	TokType TokenKind = iota
	// TokValue is an enumerator name wrapped in an <enum> element.
	TokValue
	// TokName is the declared identifier, wrapped in a <name> element.
	TokName
	// TokIdent is a bare identifier from a raw text run.
	TokIdent
	// TokNumber is an unsigned integer literal.
	TokNumber

	TokStar
	TokLBracket
	TokRBracket
	TokLParen
	TokRParen
	TokComma
	TokColon
	TokSemi

	TokTypedef
	TokConst
	TokStruct
	TokUnion
	TokEnum
	TokUnsigned
	TokSigned
)

// Token is one lexed declarator token. Text is set for identifier-like and
// numeric kinds and empty for punctuation and keywords.
type Token struct {
	Kind TokenKind
	Text string
}

// Content is one piece of a declaration's mixed XML content: a raw text run
// (Elem empty), or a wrapped element identified by its tag, carrying the
// element's single text child.
type Content struct {
	Elem string
	Text string
}

var keywords = map[string]TokenKind{
	"typedef":  TokTypedef,
	"const":    TokConst,
	"struct":   TokStruct,
	"union":    TokUnion,
	"enum":     TokEnum,
	"unsigned": TokUnsigned,
	"signed":   TokSigned,
}

var punct = map[byte]TokenKind{
	'*': TokStar,
	'[': TokLBracket,
	']': TokRBracket,
	'(': TokLParen,
	')': TokRParen,
	',': TokComma,
	':': TokColon,
	';': TokSemi,
}

// The registry XML occasionally omits the wrapper element around an
// identifier that is semantically a type or enumerator reference. These
// spellings are reclassified after lexing. This is a compatibility shim for
// known upstream documents, not a heuristic.
var identFixups = map[string]TokenKind{
	"STD_VIDEO_H264_MAX_NUM_LIST_REF": TokValue,
	"STD_VIDEO_H265_MAX_NUM_LIST_REF": TokValue,
	"VkBool32":                        TokType,
	"PFN_vkVoidFunction":              TokType,
}

// The calling-convention annotation on function-pointer typedefs carries no
// information once the function-pointer shape is captured structurally, so
// it is dropped outright.
const callingConvIdent = "VKAPI_PTR"

// Lex tokenizes the mixed content of one declaration. Comment elements are
// dropped; <type>, <enum> and <name> elements become single classified
// tokens; raw text runs go through a conventional C-like tokenizer. The
// returned stream has the identifier fix-ups already applied.
func Lex(pieces []Content) ([]Token, error) {
	var toks []Token
	for _, p := range pieces {
		switch p.Elem {
		case "":
			var err error
			toks, err = lexText(p.Text, toks)
			if err != nil {
				return nil, err
			}
		case "comment":
		case "type":
			toks = append(toks, Token{Kind: TokType, Text: p.Text})
		case "enum":
			toks = append(toks, Token{Kind: TokValue, Text: p.Text})
		case "name":
			toks = append(toks, Token{Kind: TokName, Text: p.Text})
		default:
			return nil, fmt.Errorf("%w: <%s>", ErrUnexpectedElement, p.Elem)
		}
	}

	return fixup(toks), nil
}

func lexText(s string, toks []Token) ([]Token, error) {
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			if kind, ok := keywords[word]; ok {
				toks = append(toks, Token{Kind: kind})
			} else {
				toks = append(toks, Token{Kind: TokIdent, Text: word})
			}
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			toks = append(toks, Token{Kind: TokNumber, Text: s[i:j]})
			i = j
		default:
			kind, ok := punct[c]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrBadToken, string(c))
			}
			toks = append(toks, Token{Kind: kind})
			i++
		}
	}

	return toks, nil
}

func fixup(toks []Token) []Token {
	out := toks[:0]
	for _, tok := range toks {
		if tok.Kind == TokIdent {
			if tok.Text == callingConvIdent {
				continue
			}
			if kind, ok := identFixups[tok.Text]; ok {
				tok.Kind = kind
			}
		}
		out = append(out, tok)
	}

	return out
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
