package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dshills/richedit/internal/plugin/lua"
)

type validateCmd struct {
	flags *flags
}

func newValidateCmd(f *flags) *validateCmd {
	return &validateCmd{flags: f}
}

func (cmd *validateCmd) command() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a config file, including its Lua scripts",
		UsageText: "richedit --config richedit.yaml validate",
		Action:    cmd.run,
	}
}

func (cmd *validateCmd) run(_ context.Context, _ *cli.Command) error {
	if cmd.flags.configPath == "" {
		return errors.New("no config file given")
	}
	opts, log, closeLog, err := cmd.flags.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	scripts, err := lua.NewState(lua.WithLogger(log))
	if err != nil {
		return err
	}
	defer scripts.Close()

	if _, err := opts.SessionOptions(scripts.Command); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d strategies, %d controls, %d key commands)\n",
		cmd.flags.configPath,
		len(opts.Autocomplete.Strategies),
		len(opts.Controls),
		len(opts.KeyCommands),
	)
	return nil
}
