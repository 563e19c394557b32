// Package errors provides structured error types for better observability
// and programmatic error handling across langpop.
//
// The table merge core reports its failure taxonomy through three codes:
// ErrCodeEmptyInput, ErrCodeInvalidMergeKey and ErrCodeSchemaMismatch.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeInvalidMergeKey,
//	    "key field missing from row",
//	    map[string]any{
//	        "key":   "date",
//	        "index": 12,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeInvalidMergeKey) {
//	    // reject the input
//	}
package errors
