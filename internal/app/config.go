package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are description files or directories, loaded in order.
	Paths []string `validate:"required,min=1,dive,required"`
	// Top names the subsystem to build; empty picks the last one declared.
	Top string
	// OutputPath receives the report; empty means the app's output writer.
	OutputPath string
	// OutDir prefixes the generated file names in listing mode.
	OutDir string
	Format string `validate:"oneof=yaml json"`
	// ListFiles prints the files generation would produce instead of a
	// report.
	ListFiles bool
	// Params override top-level parameters; values are HCL expressions.
	Params map[string]string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, formatValidationError(verrs)
		}
		return nil, err
	}
	return &cfg, nil
}

func formatValidationError(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is a required configuration field and cannot be empty", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", e.Field(), e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", e.Field(), e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", e.Field(), e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
