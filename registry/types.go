package registry

import "github.com/ardanlabs/vk-converter/cdecl"

// Registry is the fully parsed entity model for one registry document.
// Every sequence preserves declaration order; code generation iterates, it
// does not look up. A Registry is immutable once Parse returns.
type Registry struct {
	Externals       []External
	BaseTypes       []BaseType
	BitMaskTypes    []BitMaskType
	BitMaskAliases  []Alias
	Handles         []Handle
	HandleAliases   []Alias
	EnumTypes       []EnumType
	EnumAliases     []Alias
	FuncPointers    []FuncPointer
	Structs         []Structure
	StructAliases   []Alias
	Unions          []Structure
	Constants       []Constant
	ConstantAliases []Alias
	Enums           []Enum
	BitMasks        []BitMask
	Commands        []Command
	CommandAliases  []Alias
	Features        []Feature
	Extensions      []Extension
}

// Alias is a pure rename. Target names the canonical entity; it is not
// required to exist yet when the alias is recorded, and resolution is left
// to the consumer.
type Alias struct {
	Name   string
	Target string
}

// External is a type with no structural definition in the document, defined
// by a platform header instead. Requires optionally names that header.
type External struct {
	Name     string
	Requires string
}

// BaseType is a typedef of a known base type. Type is empty for
// platform-specific opaque types.
type BaseType struct {
	Name string
	Type string
}

// Handle is an opaque resource reference. Parent names the owning handle
// kind, if any.
type Handle struct {
	Parent      string
	ObjTypeEnum string
	Type        string
	Name        string
}

// BitMaskType is the named flag-set type; its variants live in the BitMask
// with the name given by Requires or BitValues.
type BitMaskType struct {
	Requires  string
	BitValues string
	Type      string
	Name      string
}

// EnumType is a named enumeration declaration; its variants live in the
// Enum of the same name.
type EnumType struct {
	Name string
}

// FuncPointer is a typedef whose declarator resolves to a function-pointer
// signature.
type FuncPointer struct {
	Decl     cdecl.Decl
	Requires string
}

// StructureMember is one member of a struct or union. Len, AltLen and
// Optional carry the raw comma-separated attribute tokens; nothing binds
// them to sibling members at this layer. Values, when set, constrains the
// member to a fixed enumerator (struct-type discriminator fields).
type StructureMember struct {
	Decl     cdecl.Decl
	Values   string
	Len      []string
	AltLen   []string
	Optional []string
}

// Structure is a struct or union; which Registry sequence holds it tells
// the two apart.
type Structure struct {
	Name          string
	StructExtends []string
	Members       []StructureMember
}

// Constant is a named literal from the flat "API Constants" bucket.
type Constant struct {
	Type  string
	Value string
	Name  string
}

// EnumValue is a named integer variant.
type EnumValue struct {
	Value string
	Name  string
}

// Enum is a named enumeration together with its variants and pure-rename
// aliases.
type Enum struct {
	Name    string
	Values  []EnumValue
	Aliases []Alias
}

// BitMaskBit is a variant standing for a single bit position.
type BitMaskBit struct {
	BitPos string
	Name   string
}

// BitMask is a named flag set. Bits hold single-bit variants; Values hold
// pre-combined literal variants (a literal OR of bits, or no bits at all,
// e.g. VK_CULL_MODE_FRONT_AND_BACK); Aliases hold pure renames.
type BitMask struct {
	Name    string
	Bits    []BitMaskBit
	Values  []EnumValue
	Aliases []Alias
}

// CommandParam is one parameter of a command, with the same length and
// optionality metadata as struct members.
type CommandParam struct {
	Decl     cdecl.Decl
	Len      []string
	AltLen   []string
	Optional []string
}

// Command is a callable entry point. ReturnType is nil for void.
type Command struct {
	ReturnType cdecl.Type
	Name       string
	Params     []CommandParam
}

// Version is a core API version, parsed from a VK_VERSION_major_minor name.
type Version struct {
	Major uint32
	Minor uint32
}

// Depends is one alternative prerequisite of a Require group: a core
// version, or (when Extension is non-empty) another extension's name.
type Depends struct {
	Version   Version
	Extension string
}

// RequireConstant references a constant; a non-empty Value defines a new
// constant here.
type RequireConstant struct {
	Name  string
	Value string
}

// RequireEnumVariant is an enum variant newly introduced by a feature or
// extension at an explicit offset.
type RequireEnumVariant struct {
	Name    string
	Offset  uint8
	Extends string
}

// RequireBitPos is a bit position newly introduced by a feature or
// extension.
type RequireBitPos struct {
	Name    string
	BitPos  uint8
	Extends string
}

// RequireType pulls a pre-existing type into a feature or extension.
type RequireType struct {
	Name string
}

// RequireCommand pulls a pre-existing command into a feature or extension.
type RequireCommand struct {
	Name string
}

// Require is one dependency-gated requirement group. An empty Depends list
// means the group is always active for its feature or extension.
type Require struct {
	Depends      []Depends
	EnumVariants []RequireEnumVariant
	BitPositions []RequireBitPos
	Constants    []RequireConstant
	Types        []RequireType
	Commands     []RequireCommand
}

// Feature is a versioned, always-core capability grouping.
type Feature struct {
	Name     string
	Version  Version
	Requires []Require
}

// Extension is an optional, named capability grouping. Number is 0 when the
// document gives none.
type Extension struct {
	Name     string
	Number   int
	Type     string
	Requires []Require
}
