package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "RICHEDIT_"

// LookupFunc reads an environment variable.
type LookupFunc func(name string) (string, bool)

// ApplyEnv overrides scalar settings from the environment:
//
//	RICHEDIT_READ_ONLY      readOnly
//	RICHEDIT_MAX_LENGTH     maxLength
//	RICHEDIT_LOG_LEVEL      logLevel
//	RICHEDIT_PRETTY_SAVE    prettySave
//	RICHEDIT_SUGGEST_LIMIT  autocomplete.suggestLimit
//
// A nil lookup uses os.LookupEnv. Empty values are ignored.
func (o *Options) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("READ_ONLY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREAD_ONLY: %w", EnvPrefix, err)
		}
		o.ReadOnly = b
	}
	if v, ok := get("PRETTY_SAVE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sPRETTY_SAVE: %w", EnvPrefix, err)
		}
		o.PrettySave = b
	}
	if v, ok := get("MAX_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_LENGTH: %w", EnvPrefix, err)
		}
		o.MaxLength = n
	}
	if v, ok := get("SUGGEST_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSUGGEST_LIMIT: %w", EnvPrefix, err)
		}
		o.Autocomplete.SuggestLimit = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		o.LogLevel = v
	}
	return o.Validate()
}
