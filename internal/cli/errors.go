package cli

import "github.com/aidanlsb/sift/internal/query"

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Compile errors
	ErrFilterInvalid        = "FILTER_INVALID"
	ErrFieldInvalid         = "FIELD_INVALID"
	ErrValueInvalid         = "VALUE_INVALID"
	ErrExpansionInvalid     = "EXPANSION_INVALID"
	ErrSortFieldInvalid     = "SORT_FIELD_INVALID"
	ErrSortDirectionInvalid = "SORT_DIRECTION_INVALID"

	// Catalog errors
	ErrSchemaNotFound = "SCHEMA_NOT_FOUND"
	ErrSchemaInvalid  = "SCHEMA_INVALID"
	ErrEntityNotFound = "ENTITY_NOT_FOUND"

	// Record errors
	ErrRecordNotFound   = "RECORD_NOT_FOUND"
	ErrAncestorNotFound = "ANCESTOR_NOT_FOUND"
	ErrDatabaseError    = "DATABASE_ERROR"
	ErrFileReadError    = "FILE_READ_ERROR"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrDocsNotFound    = "DOCS_NOT_FOUND"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

var kindCodes = map[query.Kind]string{
	query.KindInvalidFilterSyntax:  ErrFilterInvalid,
	query.KindInvalidField:         ErrFieldInvalid,
	query.KindInvalidValue:         ErrValueInvalid,
	query.KindInvalidExpansion:     ErrExpansionInvalid,
	query.KindInvalidSortField:     ErrSortFieldInvalid,
	query.KindInvalidSortDirection: ErrSortDirectionInvalid,
	query.KindUnknownEntity:        ErrEntityNotFound,
}

func codeForKind(k query.Kind) string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return ErrInternal
}
