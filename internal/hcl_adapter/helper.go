package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder often populates optional fields with non-nil, zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// stringMap evaluates an object expression such as `vars = { ... }` into a
// map of strings. Numbers and bools are rendered in their canonical string
// form; nested collections are rejected.
func stringMap(ctx context.Context, expr hcl.Expression, attrName string) (map[string]string, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return map[string]string{}, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", attrName, diags)
	}
	if val.IsNull() {
		return map[string]string{}, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", attrName, ty.FriendlyName())
	}

	out := make(map[string]string, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if v.IsNull() {
			continue
		}
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s.%s must be a string, number or bool: %w", attrName, key, err)
		}
		out[key] = str.AsString()
	}
	return out, nil
}
