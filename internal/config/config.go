// Package config holds the runtime settings shared by the commands.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is validated with struct tags; see Validate.
type Config struct {
	HashMB       int           `json:"hashMB" validate:"min=1,max=65536"`
	DefaultDepth int           `json:"defaultDepth" validate:"min=1,max=64"`
	MoveTime     time.Duration `json:"moveTime" validate:"min=0"`
	DataDir      string        `json:"dataDir" validate:"omitempty,max=4096"`
	LogLevel     string        `json:"logLevel" validate:"oneof=trace debug info warn error disabled"`
	LogPretty    bool          `json:"logPretty"`
	PerftWorkers int           `json:"perftWorkers" validate:"min=1,max=256"`
	DisableCache bool          `json:"disableCache"`
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		HashMB:       64,
		DefaultDepth: 8,
		LogLevel:     "info",
		PerftWorkers: 4,
	}
}

// Validate checks every field and joins the failures into one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "oneof":
			fmt.Fprintf(&details, "%s must be one of [%s]", fe.Field(), fe.Param())
		case "min":
			if fe.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at least %s characters", fe.Field(), fe.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at least %s", fe.Field(), fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at most %s characters", fe.Field(), fe.Param())
			} else {
				fmt.Fprintf(&details, "%s must be at most %s", fe.Field(), fe.Param())
			}
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid config: %s", details.String())
}
