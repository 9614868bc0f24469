// Package registry ingests Khronos registry XML documents (vk.xml,
// video.xml) into a typed entity model. The caller supplies the document
// bytes and a target API identifier; file loading and logger configuration
// stay outside.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardanlabs/vk-converter/cdecl"
)

// LevelTrace is the per-node classification log level, below slog's Debug.
const LevelTrace = slog.LevelDebug - 4

// Parse ingests one registry document for the given target API. It either
// returns a complete Registry or the first fatal error; no partial model is
// ever returned.
func Parse(data []byte, api string) (*Registry, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	b := &builder{
		reg:  &Registry{},
		api:  api,
		seen: make(map[string]map[string]bool),
		log:  slog.With("api", api),
	}
	if err := b.registry(root); err != nil {
		return nil, err
	}

	return b.reg, nil
}

type builder struct {
	reg  *Registry
	api  string
	seen map[string]map[string]bool
	log  *slog.Logger
}

// define records a name in a category and rejects re-registration. The
// document is malformed if any category sees a name twice.
func (b *builder) define(category, name string, n *node) error {
	names := b.seen[category]
	if names == nil {
		names = make(map[string]bool)
		b.seen[category] = names
	}
	if names[name] {
		return fmt.Errorf("%s: %w: %s %q", n, ErrDuplicateDefinition, category, name)
	}
	names[name] = true
	return nil
}

func (b *builder) trace(n *node) {
	b.log.Log(context.Background(), LevelTrace, "classifying node", "node", n.String())
}

func (b *builder) registry(root *node) error {
	for _, p := range root.content {
		section := p.elem
		if section == nil || !section.apiMatches(b.api) {
			continue
		}
		var err error
		switch section.tag {
		case "types":
			err = b.types(section)
		case "enums":
			err = b.enums(section)
		case "commands":
			err = b.commands(section)
		case "feature":
			err = b.feature(section)
		case "extensions":
			err = b.extensions(section)
		default:
			// Unknown sections are future registry material, not errors.
			b.log.Debug("ignoring registry section", "node", section.String())
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) types(section *node) error {
	for _, n := range section.elems("type") {
		if !n.apiMatches(b.api) {
			continue
		}
		b.trace(n)

		if n.hasAttr("alias") {
			category, _ := n.attr("category")
			alias, err := b.alias(n, category+" alias")
			if err != nil {
				return err
			}
			switch category {
			case "bitmask":
				b.reg.BitMaskAliases = append(b.reg.BitMaskAliases, alias)
			case "handle":
				b.reg.HandleAliases = append(b.reg.HandleAliases, alias)
			case "enum":
				b.reg.EnumAliases = append(b.reg.EnumAliases, alias)
			case "struct":
				b.reg.StructAliases = append(b.reg.StructAliases, alias)
			default:
				b.log.Debug("ignoring alias", "node", n.String())
			}
			continue
		}

		category, hasCategory := n.attr("category")
		if !hasCategory {
			if err := b.external(n); err != nil {
				return err
			}
			continue
		}
		var err error
		switch category {
		case "basetype":
			err = b.baseType(n)
		case "bitmask":
			err = b.bitMaskType(n)
		case "handle":
			err = b.handle(n)
		case "enum":
			err = b.enumType(n)
		case "funcpointer":
			err = b.funcPointer(n)
		case "struct":
			err = b.structure(n, &b.reg.Structs, "struct")
		case "union":
			err = b.structure(n, &b.reg.Unions, "union")
		default:
			b.log.Debug("ignoring type", "node", n.String())
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) alias(n *node, category string) (Alias, error) {
	name, err := reqAttr(n, "name")
	if err != nil {
		return Alias{}, err
	}
	target, err := reqAttr(n, "alias")
	if err != nil {
		return Alias{}, err
	}
	if err := b.define(category, name, n); err != nil {
		return Alias{}, err
	}

	return Alias{Name: name, Target: target}, nil
}

func (b *builder) external(n *node) error {
	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("external", name, n); err != nil {
		return err
	}
	requires, _ := n.attr("requires")
	b.reg.Externals = append(b.reg.Externals, External{Name: name, Requires: requires})

	return nil
}

func (b *builder) baseType(n *node) error {
	name, err := reqChildText(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("basetype", name, n); err != nil {
		return err
	}
	// No underlying type means a platform-specific opaque type.
	ty, _ := n.childText("type")
	b.reg.BaseTypes = append(b.reg.BaseTypes, BaseType{Name: name, Type: ty})

	return nil
}

func (b *builder) bitMaskType(n *node) error {
	ty, err := reqChildText(n, "type")
	if err != nil {
		return err
	}
	name, err := reqChildText(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("bitmask type", name, n); err != nil {
		return err
	}
	requires, _ := n.attr("requires")
	bitValues, _ := n.attr("bitvalues")
	b.reg.BitMaskTypes = append(b.reg.BitMaskTypes, BitMaskType{
		Requires:  requires,
		BitValues: bitValues,
		Type:      ty,
		Name:      name,
	})

	return nil
}

func (b *builder) handle(n *node) error {
	objTypeEnum, err := reqAttr(n, "objtypeenum")
	if err != nil {
		return err
	}
	ty, err := reqChildText(n, "type")
	if err != nil {
		return err
	}
	name, err := reqChildText(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("handle", name, n); err != nil {
		return err
	}
	parent, _ := n.attr("parent")
	b.reg.Handles = append(b.reg.Handles, Handle{
		Parent:      parent,
		ObjTypeEnum: objTypeEnum,
		Type:        ty,
		Name:        name,
	})

	return nil
}

func (b *builder) enumType(n *node) error {
	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("enum type", name, n); err != nil {
		return err
	}
	b.reg.EnumTypes = append(b.reg.EnumTypes, EnumType{Name: name})

	return nil
}

func (b *builder) funcPointer(n *node) error {
	decl, err := b.declaration(n, cdecl.TypeDef)
	if err != nil {
		return err
	}
	if err := b.define("funcpointer", decl.Name, n); err != nil {
		return err
	}
	requires, _ := n.attr("requires")
	b.reg.FuncPointers = append(b.reg.FuncPointers, FuncPointer{Decl: decl, Requires: requires})

	return nil
}

func (b *builder) structure(n *node, dst *[]Structure, category string) error {
	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	if err := b.define(category, name, n); err != nil {
		return err
	}

	st := Structure{Name: name, StructExtends: n.attrList("structextends")}
	for _, member := range n.elems("member") {
		if !member.apiMatches(b.api) {
			continue
		}
		decl, err := b.declaration(member, cdecl.StructMember)
		if err != nil {
			return err
		}
		values, _ := member.attr("values")
		st.Members = append(st.Members, StructureMember{
			Decl:     decl,
			Values:   values,
			Len:      member.attrList("len"),
			AltLen:   member.attrList("altlen"),
			Optional: member.attrList("optional"),
		})
	}
	*dst = append(*dst, st)

	return nil
}

func (b *builder) enums(section *node) error {
	b.trace(section)

	ty, hasType := section.attr("type")
	if !hasType {
		if name, _ := section.attr("name"); name == "API Constants" {
			return b.constants(section)
		}
		b.log.Debug("ignoring enums group", "node", section.String())
		return nil
	}
	switch ty {
	case "enum":
		return b.enum(section)
	case "bitmask":
		return b.bitMask(section)
	default:
		b.log.Debug("ignoring enums group", "node", section.String())
		return nil
	}
}

func (b *builder) constants(section *node) error {
	for _, n := range section.elems("enum") {
		if !n.apiMatches(b.api) {
			continue
		}
		if n.hasAttr("alias") {
			alias, err := b.alias(n, "constant alias")
			if err != nil {
				return err
			}
			b.reg.ConstantAliases = append(b.reg.ConstantAliases, alias)
			continue
		}
		name, err := reqAttr(n, "name")
		if err != nil {
			return err
		}
		ty, err := reqAttr(n, "type")
		if err != nil {
			return err
		}
		value, err := reqAttr(n, "value")
		if err != nil {
			return err
		}
		if err := b.define("constant", name, n); err != nil {
			return err
		}
		b.reg.Constants = append(b.reg.Constants, Constant{Type: ty, Value: value, Name: name})
	}

	return nil
}

func (b *builder) enumValue(n *node) (EnumValue, error) {
	value, err := reqAttr(n, "value")
	if err != nil {
		return EnumValue{}, err
	}
	name, err := reqAttr(n, "name")
	if err != nil {
		return EnumValue{}, err
	}

	return EnumValue{Value: value, Name: name}, nil
}

func (b *builder) enum(section *node) error {
	name, err := reqAttr(section, "name")
	if err != nil {
		return err
	}
	if err := b.define("enum", name, section); err != nil {
		return err
	}

	e := Enum{Name: name}
	for _, variant := range section.elems("enum") {
		if !variant.apiMatches(b.api) {
			continue
		}
		if variant.hasAttr("alias") {
			alias, err := b.alias(variant, "enum "+name+" alias")
			if err != nil {
				return err
			}
			e.Aliases = append(e.Aliases, alias)
			continue
		}
		value, err := b.enumValue(variant)
		if err != nil {
			return err
		}
		e.Values = append(e.Values, value)
	}
	b.reg.Enums = append(b.reg.Enums, e)

	return nil
}

func (b *builder) bitMask(section *node) error {
	name, err := reqAttr(section, "name")
	if err != nil {
		return err
	}
	if err := b.define("bitmask", name, section); err != nil {
		return err
	}

	bm := BitMask{Name: name}
	for _, variant := range section.elems("enum") {
		if !variant.apiMatches(b.api) {
			continue
		}
		switch {
		case variant.hasAttr("alias"):
			alias, err := b.alias(variant, "bitmask "+name+" alias")
			if err != nil {
				return err
			}
			bm.Aliases = append(bm.Aliases, alias)
		case variant.hasAttr("value"):
			// Literal variants: a combination of bits, or no bits at all.
			value, err := b.enumValue(variant)
			if err != nil {
				return err
			}
			bm.Values = append(bm.Values, value)
		default:
			bitPos, err := reqAttr(variant, "bitpos")
			if err != nil {
				return err
			}
			variantName, err := reqAttr(variant, "name")
			if err != nil {
				return err
			}
			bm.Bits = append(bm.Bits, BitMaskBit{BitPos: bitPos, Name: variantName})
		}
	}
	b.reg.BitMasks = append(b.reg.BitMasks, bm)

	return nil
}

func (b *builder) commands(section *node) error {
	for _, n := range section.elems("command") {
		if !n.apiMatches(b.api) {
			continue
		}
		b.trace(n)

		if n.hasAttr("alias") {
			alias, err := b.alias(n, "command alias")
			if err != nil {
				return err
			}
			b.reg.CommandAliases = append(b.reg.CommandAliases, alias)
			continue
		}
		if err := b.command(n); err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) command(n *node) error {
	var proto *node
	for _, candidate := range n.elems("proto") {
		if candidate.apiMatches(b.api) {
			proto = candidate
			break
		}
	}
	if proto == nil {
		return fmt.Errorf("%s: %w: %q", n, ErrMissingAttribute, "proto")
	}
	decl, err := b.declaration(proto, cdecl.StructMember)
	if err != nil {
		return err
	}
	if err := b.define("command", decl.Name, n); err != nil {
		return err
	}

	cmd := Command{Name: decl.Name}
	// A bare void return is an absent return type, not a "void" value.
	if decl.Type != cdecl.Void {
		cmd.ReturnType = decl.Type
	}
	for _, param := range n.elems("param") {
		if !param.apiMatches(b.api) {
			continue
		}
		paramDecl, err := b.declaration(param, cdecl.FuncParam)
		if err != nil {
			return err
		}
		cmd.Params = append(cmd.Params, CommandParam{
			Decl:     paramDecl,
			Len:      param.attrList("len"),
			AltLen:   param.attrList("altlen"),
			Optional: param.attrList("optional"),
		})
	}
	b.reg.Commands = append(b.reg.Commands, cmd)

	return nil
}

func (b *builder) feature(n *node) error {
	b.trace(n)

	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	version, ok := ParseVersion(name)
	if !ok {
		return fmt.Errorf("%s: %w: feature name %q", n, ErrUnparsableAttribute, name)
	}
	if err := b.define("feature", name, n); err != nil {
		return err
	}

	f := Feature{Name: name, Version: version}
	f.Requires, err = b.requires(n)
	if err != nil {
		return err
	}
	b.reg.Features = append(b.reg.Features, f)

	return nil
}

func (b *builder) extensions(section *node) error {
	for _, n := range section.elems("extension") {
		if !supportedMatches(n, b.api) {
			continue
		}
		b.trace(n)
		if err := b.extension(n); err != nil {
			return err
		}
	}

	return nil
}

func supportedMatches(n *node, api string) bool {
	v, ok := n.attr("supported")
	if !ok {
		return true
	}
	for _, candidate := range strings.Split(v, ",") {
		if candidate == api {
			return true
		}
	}
	return false
}

func (b *builder) extension(n *node) error {
	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	if err := b.define("extension", name, n); err != nil {
		return err
	}

	ext := Extension{Name: name}
	if number, ok := n.attr("number"); ok {
		ext.Number, err = strconv.Atoi(number)
		if err != nil {
			return fmt.Errorf("%s: %w: number %q", n, ErrUnparsableAttribute, number)
		}
	}
	ext.Type, _ = n.attr("type")
	ext.Requires, err = b.requires(n)
	if err != nil {
		return err
	}
	b.reg.Extensions = append(b.reg.Extensions, ext)

	return nil
}

func (b *builder) requires(n *node) ([]Require, error) {
	var groups []Require
	for _, group := range n.elems("require") {
		if !group.apiMatches(b.api) {
			continue
		}
		req, err := b.require(group)
		if err != nil {
			return nil, err
		}
		groups = append(groups, req)
	}

	return groups, nil
}

func (b *builder) require(n *node) (Require, error) {
	var req Require
	for _, dep := range n.attrList("depends") {
		req.Depends = append(req.Depends, ParseDepends(dep))
	}

	for _, p := range n.content {
		child := p.elem
		if child == nil || !child.apiMatches(b.api) {
			continue
		}
		switch child.tag {
		case "enum":
			if err := b.requireEnum(child, &req); err != nil {
				return Require{}, err
			}
		case "type":
			name, err := reqAttr(child, "name")
			if err != nil {
				return Require{}, err
			}
			req.Types = append(req.Types, RequireType{Name: name})
		case "command":
			name, err := reqAttr(child, "name")
			if err != nil {
				return Require{}, err
			}
			req.Commands = append(req.Commands, RequireCommand{Name: name})
		default:
			b.log.Debug("ignoring require entry", "node", child.String())
		}
	}

	return req, nil
}

func (b *builder) requireEnum(n *node, req *Require) error {
	name, err := reqAttr(n, "name")
	if err != nil {
		return err
	}
	switch {
	case n.hasAttr("offset"):
		offset, err := u8Attr(n, "offset")
		if err != nil {
			return err
		}
		extends, err := reqAttr(n, "extends")
		if err != nil {
			return err
		}
		req.EnumVariants = append(req.EnumVariants, RequireEnumVariant{
			Name:    name,
			Offset:  offset,
			Extends: extends,
		})
	case n.hasAttr("bitpos"):
		bitPos, err := u8Attr(n, "bitpos")
		if err != nil {
			return err
		}
		extends, err := reqAttr(n, "extends")
		if err != nil {
			return err
		}
		req.BitPositions = append(req.BitPositions, RequireBitPos{
			Name:    name,
			BitPos:  bitPos,
			Extends: extends,
		})
	default:
		value, _ := n.attr("value")
		req.Constants = append(req.Constants, RequireConstant{Name: name, Value: value})
	}

	return nil
}

// ParseVersion parses a VK_VERSION_major_minor feature name.
func ParseVersion(name string) (Version, bool) {
	rest, ok := strings.CutPrefix(name, "VK_VERSION_")
	if !ok {
		return Version{}, false
	}
	majorStr, minorStr, ok := strings.Cut(rest, "_")
	if !ok {
		return Version{}, false
	}
	major, err := strconv.ParseUint(majorStr, 10, 32)
	if err != nil {
		return Version{}, false
	}
	minor, err := strconv.ParseUint(minorStr, 10, 32)
	if err != nil {
		return Version{}, false
	}

	return Version{Major: uint32(major), Minor: uint32(minor)}, true
}

// ParseDepends classifies one depends token as a core version or an
// extension name.
func ParseDepends(s string) Depends {
	if v, ok := ParseVersion(s); ok {
		return Depends{Version: v}
	}
	return Depends{Extension: s}
}

// declaration parses a node's mixed content as one C declaration.
func (b *builder) declaration(n *node, mode cdecl.Mode) (cdecl.Decl, error) {
	var pieces []cdecl.Content
	for _, p := range n.content {
		if p.elem == nil {
			pieces = append(pieces, cdecl.Content{Text: p.text})
			continue
		}
		child := p.elem
		if child.tag == "comment" {
			pieces = append(pieces, cdecl.Content{Elem: "comment"})
			continue
		}
		text, ok := child.singleText()
		if !ok {
			return cdecl.Decl{}, fmt.Errorf("%s: %w: <%s>", n, cdecl.ErrUnexpectedElement, child.tag)
		}
		pieces = append(pieces, cdecl.Content{Elem: child.tag, Text: text})
	}

	toks, err := cdecl.Lex(pieces)
	if err != nil {
		return cdecl.Decl{}, fmt.Errorf("%s: %w", n, err)
	}
	decl, err := cdecl.Parse(mode, toks)
	if err != nil {
		return cdecl.Decl{}, fmt.Errorf("%s: %w", n, err)
	}

	return decl, nil
}

func reqAttr(n *node, name string) (string, error) {
	v, ok := n.attr(name)
	if !ok {
		return "", fmt.Errorf("%s: %w: %q", n, ErrMissingAttribute, name)
	}
	return v, nil
}

func reqChildText(n *node, tag string) (string, error) {
	v, ok := n.childText(tag)
	if !ok {
		return "", fmt.Errorf("%s: %w: child <%s>", n, ErrMissingAttribute, tag)
	}
	return v, nil
}

func u8Attr(n *node, name string) (uint8, error) {
	raw, err := reqAttr(n, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %s %q", n, ErrUnparsableAttribute, name, raw)
	}
	return uint8(v), nil
}
