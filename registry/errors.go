package registry

import "errors"

var (
	// ErrMalformedDocument reports input that is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed registry document")

	// ErrMissingAttribute reports a node lacking an attribute or child its
	// entity kind requires.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrUnparsableAttribute reports an attribute whose value fails to
	// parse as the expected numeric or structured form.
	ErrUnparsableAttribute = errors.New("unparsable attribute")

	// ErrDuplicateDefinition reports an entity name inserted twice into the
	// same category.
	ErrDuplicateDefinition = errors.New("duplicate definition")
)
