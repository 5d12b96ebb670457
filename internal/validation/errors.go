package validation

import (
	"errors"
	"fmt"
	"strings"
)

type RequiredFieldMissing struct {
	Field string
}

func (e *RequiredFieldMissing) Error() string {
	return fmt.Sprintf("missing required field %s", e.Field)
}

type TypeMismatch struct {
	Field string
	Want  string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("field %s is not a valid %s", e.Field, e.Want)
}

type OutOfRange struct {
	Field string
	Value interface{}
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("value %v is out of range for field %s", e.Value, e.Field)
}

type BatchTooLarge struct {
	Count int
	Max   int
}

func (e *BatchTooLarge) Error() string {
	return fmt.Sprintf("batch of %d entries exceeds the limit of %d", e.Count, e.Max)
}

// DuplicateIdentifier enumerates every identifier that occurs more than once
// within one batch, in ascending order.
type DuplicateIdentifier struct {
	IDs []int64
}

func (e *DuplicateIdentifier) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}

	return "duplicated identifiers in batch: " + strings.Join(ids, ", ")
}

// ItemErrors groups the failures of a single batch element.
type ItemErrors struct {
	Index int
	Errs  []error
}

// ErrorTree is the accumulated outcome of validating one batch. Batch holds
// list-level failures (size, duplicate identifiers), Items holds index-tagged
// per-element failures. Nothing is raised mid-validation: the caller gets
// every violation at once.
type ErrorTree struct {
	Kind  string // "couriers" or "orders"
	Batch []error
	Items []ItemErrors
}

func (t *ErrorTree) Empty() bool {
	return t == nil || (len(t.Batch) == 0 && len(t.Items) == 0)
}

func (t *ErrorTree) Error() string {
	if t.Empty() {
		return "validation passed"
	}

	parts := []string{}
	for _, err := range t.Batch {
		parts = append(parts, err.Error())
	}
	for _, item := range t.Items {
		for _, err := range item.Errs {
			parts = append(parts, fmt.Sprintf("[%d] %s", item.Index, err.Error()))
		}
	}

	return fmt.Sprintf("%s validation failed: %s", t.Kind, strings.Join(parts, "; "))
}

// Envelope renders the tree in the wire shape existing API consumers rely on.
// Per-element failures reference the offending indexes:
//
//	{"validation_error": {"couriers": [{"id": 0}, {"id": 3}]}}
//
// List-level failures reference the offending values under the request key:
//
//	{"data": {"validation_error": [{"id": 2}]}}
//
// Element failures win when both are present, matching the deployed
// behavior where list-level checks are skipped on element errors.
func (t *ErrorTree) Envelope() map[string]interface{} {
	if len(t.Items) > 0 {
		refs := make([]map[string]interface{}, 0, len(t.Items))
		for _, item := range t.Items {
			refs = append(refs, map[string]interface{}{"id": item.Index})
		}

		return map[string]interface{}{
			"validation_error": map[string]interface{}{t.Kind: refs},
		}
	}

	refs := []map[string]interface{}{}
	for _, err := range t.Batch {
		var dup *DuplicateIdentifier
		if errors.As(err, &dup) {
			for _, id := range dup.IDs {
				refs = append(refs, map[string]interface{}{"id": id})
			}
			continue
		}

		refs = append(refs, map[string]interface{}{"message": err.Error()})
	}

	return map[string]interface{}{
		"data": map[string]interface{}{"validation_error": refs},
	}
}
