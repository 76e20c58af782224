package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dshills/richedit/internal/plugin/lua"
	"github.com/dshills/richedit/internal/session"
)

type renderCmd struct {
	flags *flags

	load  string
	plain bool
}

func newRenderCmd(f *flags) *renderCmd {
	return &renderCmd{flags: f}
}

func (cmd *renderCmd) command() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print a saved document",
		UsageText: "richedit render --load doc.json [--plain]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "load",
				Usage:       "saved document to print",
				Required:    true,
				Destination: &cmd.load,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print plain text without block decorations",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	}
}

func (cmd *renderCmd) run(_ context.Context, _ *cli.Command) error {
	opts, log, closeLog, err := cmd.flags.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	data, err := os.ReadFile(cmd.load)
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.load, err)
	}

	scripts, err := lua.NewState(lua.WithLogger(log))
	if err != nil {
		return err
	}
	defer scripts.Close()

	sessOpts, err := opts.SessionOptions(scripts.Command)
	if err != nil {
		return err
	}
	ctrl, err := session.New(append(sessOpts, session.WithLogger(log), session.WithPayload(string(data)))...)
	if err != nil {
		return err
	}
	defer ctrl.Unmount()

	if cmd.plain {
		fmt.Println(ctrl.Content().PlainText())
		return nil
	}
	for _, line := range ctrl.Render() {
		fmt.Println(line.Prefix + line.Text())
	}
	return nil
}
