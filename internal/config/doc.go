// Package config loads editing session configuration from YAML or TOML
// files.
//
// The file format is picked by extension (.yaml, .yml or .toml). Decoded
// files are validated, scalar settings may be overridden from RICHEDIT_*
// environment variables, and Options.SessionOptions turns the result
// into session.Option values:
//
//	opts, err := config.Load("richedit.yaml")
//	if err != nil {
//	    return err
//	}
//	sessOpts, err := opts.SessionOptions(luaState.Command)
//	ctrl, err := session.New(sessOpts...)
//
// Watch reloads the file when it changes on disk.
package config
