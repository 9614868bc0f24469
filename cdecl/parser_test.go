package cdecl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLex(t *testing.T, pieces []Content) []Token {
	t.Helper()
	toks, err := Lex(pieces)
	require.NoError(t, err)
	return toks
}

func TestParseTypedef(t *testing.T) {
	toks := mustLex(t, []Content{
		{Text: "typedef "},
		{Elem: "type", Text: "uint32_t"},
		{Text: " "},
		{Elem: "name", Text: "VkSampleMask"},
		{Text: ";"},
	})

	d, err := Parse(TypeDef, toks)
	require.NoError(t, err)
	assert.Equal(t, Decl{Name: "VkSampleMask", Type: Named{Name: "uint32_t"}}, d)
}

func TestParseConstPointerChain(t *testing.T) {
	toks := mustLex(t, []Content{
		{Text: "const "},
		{Elem: "type", Text: "char"},
		{Text: "* const* "},
		{Elem: "name", Text: "ppEnabledLayerNames"},
	})

	d, err := Parse(StructMember, toks)
	require.NoError(t, err)

	want := Decl{
		Name: "ppEnabledLayerNames",
		Type: Pointer{
			Elem: Pointer{
				Elem:      Named{Name: "char"},
				ConstElem: true,
			},
			ConstElem: true,
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("declaration mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "const char* const* ppEnabledLayerNames", d.String())
}

func TestParseArrayDims(t *testing.T) {
	cases := []struct {
		name   string
		pieces []Content
		want   Decl
	}{
		{
			name: "literal",
			pieces: []Content{
				{Elem: "type", Text: "float"},
				{Text: " "},
				{Elem: "name", Text: "blendConstants"},
				{Text: "[4]"},
			},
			want: Decl{
				Name: "blendConstants",
				Type: Array{Elem: Named{Name: "float"}, Len: LitLen{Value: 4}},
			},
		},
		{
			name: "symbolic",
			pieces: []Content{
				{Elem: "type", Text: "char"},
				{Text: " "},
				{Elem: "name", Text: "deviceName"},
				{Text: "["},
				{Elem: "enum", Text: "VK_MAX_PHYSICAL_DEVICE_NAME_SIZE"},
				{Text: "]"},
			},
			want: Decl{
				Name: "deviceName",
				Type: Array{Elem: Named{Name: "char"}, Len: ConstLen{Name: "VK_MAX_PHYSICAL_DEVICE_NAME_SIZE"}},
			},
		},
		{
			name: "multi dimensional",
			pieces: []Content{
				{Elem: "type", Text: "float"},
				{Text: " "},
				{Elem: "name", Text: "matrix"},
				{Text: "[3][4]"},
			},
			want: Decl{
				Name: "matrix",
				Type: Array{
					Elem: Array{Elem: Named{Name: "float"}, Len: LitLen{Value: 4}},
					Len:  LitLen{Value: 3},
				},
			},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(StructMember, mustLex(t, tt.pieces))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, d); diff != "" {
				t.Errorf("declaration mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBitfield(t *testing.T) {
	toks := mustLex(t, []Content{
		{Elem: "type", Text: "uint32_t"},
		{Text: " "},
		{Elem: "name", Text: "instanceCustomIndex"},
		{Text: ":24"},
	})

	d, err := Parse(StructMember, toks)
	require.NoError(t, err)
	assert.Equal(t, Decl{Name: "instanceCustomIndex", Type: Named{Name: "uint32_t"}, BitWidth: 24}, d)
	assert.Equal(t, "uint32_t instanceCustomIndex:24", d.String())
}

func TestParseFuncPointer(t *testing.T) {
	toks := mustLex(t, []Content{
		{Text: "typedef void* (VKAPI_PTR *"},
		{Elem: "name", Text: "PFN_vkAllocationFunction"},
		{Text: ")(\n    void* pUserData,\n    size_t size);"},
	})

	d, err := Parse(TypeDef, toks)
	require.NoError(t, err)

	want := Decl{
		Name: "PFN_vkAllocationFunction",
		Type: FuncPtr{
			Ret: Pointer{Elem: Named{Name: "void"}},
			Params: []Decl{
				{Name: "pUserData", Type: Pointer{Elem: Named{Name: "void"}}},
				{Name: "size", Type: Named{Name: "size_t"}},
			},
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFuncPointerVoid(t *testing.T) {
	toks := mustLex(t, []Content{
		{Text: "typedef void (VKAPI_PTR *"},
		{Elem: "name", Text: "PFN_vkVoidFunction"},
		{Text: ")(void);"},
	})

	d, err := Parse(TypeDef, toks)
	require.NoError(t, err)

	fp, ok := d.Type.(FuncPtr)
	require.True(t, ok)
	assert.Nil(t, fp.Ret, "void return maps to nil")
	assert.Nil(t, fp.Params, "lone void parameter list declares no parameters")
}

func TestParseNameCount(t *testing.T) {
	noName := []Token{
		{Kind: TokType, Text: "uint32_t"},
		{Kind: TokIdent, Text: "width"},
	}
	_, err := Parse(StructMember, noName)
	assert.ErrorIs(t, err, ErrNoName)

	twoNames := []Token{
		{Kind: TokType, Text: "uint32_t"},
		{Kind: TokName, Text: "width"},
		{Kind: TokComma},
		{Kind: TokName, Text: "height"},
	}
	_, err = Parse(StructMember, twoNames)
	assert.ErrorIs(t, err, ErrMultipleNames)
}

func TestParseTrailingTokens(t *testing.T) {
	toks := []Token{
		{Kind: TokType, Text: "uint32_t"},
		{Kind: TokName, Text: "width"},
		{Kind: TokStar},
	}
	_, err := Parse(StructMember, toks)
	assert.ErrorIs(t, err, ErrTrailing)
}

func TestParseBadArrayDim(t *testing.T) {
	toks := []Token{
		{Kind: TokType, Text: "uint32_t"},
		{Kind: TokName, Text: "data"},
		{Kind: TokLBracket},
		{Kind: TokStar},
		{Kind: TokRBracket},
	}
	_, err := Parse(StructMember, toks)
	assert.ErrorIs(t, err, ErrBadArrayLen)
}

// Rendering a parsed declaration back to tokens and re-parsing it must give
// the same declaration.
func TestTokensRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		mode   Mode
		pieces []Content
	}{
		{
			name: "typedef",
			mode: TypeDef,
			pieces: []Content{
				{Text: "typedef "},
				{Elem: "type", Text: "uint32_t"},
				{Text: " "},
				{Elem: "name", Text: "VkFlags"},
				{Text: ";"},
			},
		},
		{
			name: "const pointer chain",
			mode: StructMember,
			pieces: []Content{
				{Text: "const "},
				{Elem: "type", Text: "char"},
				{Text: "* const* "},
				{Elem: "name", Text: "ppNames"},
			},
		},
		{
			name: "symbolic array",
			mode: StructMember,
			pieces: []Content{
				{Elem: "type", Text: "uint8_t"},
				{Text: " "},
				{Elem: "name", Text: "uuid"},
				{Text: "["},
				{Elem: "enum", Text: "VK_UUID_SIZE"},
				{Text: "]"},
			},
		},
		{
			name: "bitfield",
			mode: StructMember,
			pieces: []Content{
				{Elem: "type", Text: "uint32_t"},
				{Text: " "},
				{Elem: "name", Text: "mask"},
				{Text: ":8"},
			},
		},
		{
			name: "function pointer",
			mode: TypeDef,
			pieces: []Content{
				{Text: "typedef void* (VKAPI_PTR *"},
				{Elem: "name", Text: "PFN_vkReallocationFunction"},
				{Text: ")(void* pUserData, size_t size)"},
			},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.mode, mustLex(t, tt.pieces))
			require.NoError(t, err)

			again, err := Parse(tt.mode, d.Tokens())
			require.NoError(t, err)
			if diff := cmp.Diff(d, again); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}
