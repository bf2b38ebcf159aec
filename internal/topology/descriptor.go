package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// descriptor is the decoded form of an interface-instance record such as
// { name = "obi", modport = "master", prefix = "m_", ADDR_WIDTH = 32 }.
type descriptor struct {
	Protocol   string `validate:"required"`
	Modport    string `validate:"oneof=slave master"`
	Prefix     string
	AddrWidth  uint64 `validate:"max=64"`
	DataWidth  uint64 `validate:"max=1024"`
	Capitalize bool
	Count      uint64 `validate:"min=1,max=1024"`
}

func decodeDescriptor(v *validator.Validate, rec cty.Value) (descriptor, error) {
	d := descriptor{Count: 1}
	if !source.IsRecord(rec) {
		return d, fmt.Errorf("expected an interface-instance record, got %s", rec.Type().FriendlyName())
	}

	var errs []error
	str := func(field string, dst *string) {
		if fv, ok := source.Field(rec, field); ok && !fv.IsNull() {
			s, err := source.String(fv)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", field, err))
				return
			}
			*dst = s
		}
	}
	num := func(field string, dst *uint64) {
		if fv, ok := source.Field(rec, field); ok && !fv.IsNull() {
			u, err := source.Uint(fv)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", field, err))
				return
			}
			*dst = u
		}
	}
	str("name", &d.Protocol)
	str("modport", &d.Modport)
	str("prefix", &d.Prefix)
	num("ADDR_WIDTH", &d.AddrWidth)
	num("DATA_WIDTH", &d.DataWidth)
	num("N", &d.Count)
	if fv, ok := source.Field(rec, "cap"); ok {
		d.Capitalize = source.Truthy(fv)
	}
	if len(errs) > 0 {
		return d, errors.Join(errs...)
	}

	if err := v.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return d, formatValidationError(verrs)
		}
		return d, err
	}
	return d, nil
}

var descriptorFields = map[string]string{
	"Protocol":  "name",
	"Modport":   "modport",
	"AddrWidth": "ADDR_WIDTH",
	"DataWidth": "DATA_WIDTH",
	"Count":     "N",
}

func formatValidationError(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := descriptorFields[e.Field()]
		if field == "" {
			field = e.Field()
		}
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %q is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %q must be one of [%s], got %q", field, e.Param(), e.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %q must be at least %s", field, e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %q must be at most %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %q failed %q validation", field, e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
