package chart

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/seqsee/pkg/errors"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the invariants decoding cannot express: numeric ranges,
// enumerated attribute values, exclusive edge targets, bezier lengths, alias
// names and node references.
//
// Errors carry SCHEMA_VIOLATION, AMBIGUOUS_EDGE_TARGET or DANGLING_REFERENCE
// and name the offending element.
func (c *Chart) Validate() error {
	if err := validate.Struct(c.Header.Config); err != nil {
		return structError("header.chart", err)
	}
	if err := validateRange("header.chart.width", c.Header.Config.Width); err != nil {
		return err
	}
	if err := validateRange("header.chart.height", c.Header.Config.Height); err != nil {
		return err
	}
	if err := c.Header.Aliases.Validate(); err != nil {
		return err
	}

	for p := c.Nodes.Oldest(); p != nil; p = p.Next() {
		if p.Value == nil {
			return errors.New(errors.ErrCodeSchemaViolation, "node %q: missing definition", p.Key)
		}
		if err := validate.Struct(p.Value); err != nil {
			return structError(fmt.Sprintf("node %q", p.Key), err)
		}
	}

	for i, e := range c.Edges {
		if err := c.validateEdge(i, e); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chart) validateEdge(i int, e *Edge) error {
	where := fmt.Sprintf("edge %d", i)
	if err := validate.Struct(e); err != nil {
		return structError(where, err)
	}
	switch e.Kind() {
	case EdgeInvalid:
		if e.Offset == nil {
			return errors.New(errors.ErrCodeAmbiguousEdgeTarget, "%s (source %q): neither target nor offset is set", where, e.Source)
		}
		return errors.New(errors.ErrCodeAmbiguousEdgeTarget, "%s (source %q): both target and offset are set", where, e.Source)
	case EdgeStructural:
		if _, ok := c.Nodes.Get(e.Target); !ok {
			return errors.New(errors.ErrCodeDanglingReference, "%s: target %q is not a node", where, e.Target)
		}
	}
	if _, ok := c.Nodes.Get(e.Source); !ok {
		return errors.New(errors.ErrCodeDanglingReference, "%s: source %q is not a node", where, e.Source)
	}
	return nil
}

func validateRange(where string, r DimensionRange) error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return errors.New(errors.ErrCodeSchemaViolation, "%s: min %d is greater than max %d", where, *r.Min, *r.Max)
	}
	return nil
}

// Validate checks alias names and the literal entries of every alias list.
func (a Aliases) Validate() error {
	if a.Colors != nil {
		for p := a.Colors.Oldest(); p != nil; p = p.Next() {
			if err := errors.ValidateAliasName(p.Key); err != nil {
				return errors.New(errors.ErrCodeSchemaViolation, "color alias %q: %s", p.Key, errors.UserMessage(err))
			}
		}
	}
	if a.Attributes != nil {
		for p := a.Attributes.Oldest(); p != nil; p = p.Next() {
			if err := errors.ValidateAliasName(p.Key); err != nil {
				return errors.New(errors.ErrCodeSchemaViolation, "attribute alias %q: %s", p.Key, errors.UserMessage(err))
			}
			for i, entry := range p.Value {
				if entry.Attr == nil {
					continue
				}
				if err := validate.Struct(entry.Attr); err != nil {
					return structError(fmt.Sprintf("attribute alias %q entry %d", p.Key, i), err)
				}
			}
		}
	}
	return nil
}

// structError converts the first validator failure into a SCHEMA_VIOLATION
// naming the field path.
func structError(where string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeSchemaViolation, err, "%s", where)
	}
	fe := verrs[0]
	return errors.New(errors.ErrCodeSchemaViolation, "%s: %s", where, describe(fieldPath(fe), fe))
}

// fieldPath strips the root struct name and the entry wrapper from a
// validator namespace: "Node.attributes[0].Attr.pattern" becomes
// "attributes[0].pattern".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	return strings.ReplaceAll(ns, ".Attr.", ".")
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s must have between 1 and 2 entries", field)
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
