package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexWrappedElements(t *testing.T) {
	toks, err := Lex([]Content{
		{Text: "typedef "},
		{Elem: "type", Text: "uint32_t"},
		{Text: " "},
		{Elem: "name", Text: "VkSampleMask"},
		{Text: ";"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: TokTypedef},
		{Kind: TokType, Text: "uint32_t"},
		{Kind: TokName, Text: "VkSampleMask"},
		{Kind: TokSemi},
	}, toks)
}

func TestLexRawText(t *testing.T) {
	toks, err := Lex([]Content{
		{Text: "const char* const* "},
		{Elem: "name", Text: "ppNames"},
		{Text: "[4]"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: TokConst},
		{Kind: TokIdent, Text: "char"},
		{Kind: TokStar},
		{Kind: TokConst},
		{Kind: TokStar},
		{Kind: TokName, Text: "ppNames"},
		{Kind: TokLBracket},
		{Kind: TokNumber, Text: "4"},
		{Kind: TokRBracket},
	}, toks)
}

func TestLexDropsComments(t *testing.T) {
	toks, err := Lex([]Content{
		{Elem: "type", Text: "float"},
		{Elem: "comment", Text: "the clear color"},
		{Text: " "},
		{Elem: "name", Text: "float32"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: TokType, Text: "float"},
		{Kind: TokName, Text: "float32"},
	}, toks)
}

func TestLexFixups(t *testing.T) {
	// The registry leaves these identifiers unwrapped; the lexer reclassifies
	// them to the element kinds equivalent documents use.
	toks, err := Lex([]Content{
		{Text: "typedef VkBool32 (VKAPI_PTR *"},
		{Elem: "name", Text: "PFN_vkCallback"},
		{Text: ")(void);"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: TokTypedef},
		{Kind: TokType, Text: "VkBool32"},
		{Kind: TokLParen},
		{Kind: TokStar},
		{Kind: TokName, Text: "PFN_vkCallback"},
		{Kind: TokRParen},
		{Kind: TokLParen},
		{Kind: TokIdent, Text: "void"},
		{Kind: TokRParen},
		{Kind: TokSemi},
	}, toks)
}

func TestLexSymbolicDimFixup(t *testing.T) {
	toks, err := Lex([]Content{
		{Elem: "type", Text: "uint8_t"},
		{Text: " "},
		{Elem: "name", Text: "RefPicList"},
		{Text: "[STD_VIDEO_H264_MAX_NUM_LIST_REF]"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Kind: TokType, Text: "uint8_t"},
		{Kind: TokName, Text: "RefPicList"},
		{Kind: TokLBracket},
		{Kind: TokValue, Text: "STD_VIDEO_H264_MAX_NUM_LIST_REF"},
		{Kind: TokRBracket},
	}, toks)
}

func TestLexUnknownElement(t *testing.T) {
	_, err := Lex([]Content{{Elem: "member", Text: "x"}})
	assert.ErrorIs(t, err, ErrUnexpectedElement)
}

func TestLexBadCharacter(t *testing.T) {
	_, err := Lex([]Content{{Text: "uint32_t x = 0"}})
	assert.ErrorIs(t, err, ErrBadToken)
}
