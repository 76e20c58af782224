package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/plugin/lua"
	"github.com/dshills/richedit/internal/schedule"
	"github.com/dshills/richedit/internal/session"
)

type editCmd struct {
	flags *flags

	load string
	save string
}

func newEditCmd(f *flags) *editCmd {
	return &editCmd{flags: f}
}

func (cmd *editCmd) command() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Open the interactive editor",
		UsageText: "richedit edit [--load doc.json] [--save doc.json]",
		Description: `Opens a document in the terminal editor.

Keys: Ctrl-S save, Ctrl-Q quit, Ctrl-L link, Ctrl-G image,
F1-F12 run the toolbar buttons in order. Config file changes are
picked up while editing.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "load",
				Usage:       "document to open; a missing file starts empty",
				Destination: &cmd.load,
			},
			&cli.StringFlag{
				Name:        "save",
				Usage:       "where Ctrl-S writes (defaults to --load)",
				Destination: &cmd.save,
			},
		},
		Action: cmd.run,
	}
}

func (cmd *editCmd) run(ctx context.Context, _ *cli.Command) error {
	opts, log, closeLog, err := cmd.flags.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	payload, err := readPayload(cmd.load)
	if err != nil {
		return err
	}
	savePath := cmd.save
	if savePath == "" {
		savePath = cmd.load
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnablePaste()

	h := newHost(screen, log, savePath)
	h.scripts = scripts
	queue := schedule.New(schedule.WithWake(h.wake))
	h.queue = queue

	ctrl, err := session.New(append(sessOpts,
		session.WithLogger(log),
		session.WithPayload(payload),
		session.WithGeometry(h),
		session.WithFocuser(h),
		session.WithScheduler(queue),
		session.WithOverlay(overlay.WithHeaderHeight(1), overlay.WithLineHeight(1)),
		session.WithOnSave(h.write),
	)...)
	if err != nil {
		return err
	}
	defer ctrl.Unmount()
	if err := h.attach(ctrl); err != nil {
		return err
	}

	if cmd.flags.configPath != "" {
		w, err := config.Watch(ctx, cmd.flags.configPath, func(o config.Options, err error) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(reload{opts: o, err: err}))
		}, config.WithWatchLogger(log))
		if err != nil {
			log.Warn().Err(err).Msg("config live reload disabled")
		} else {
			defer w.Close()
		}
	}

	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(quit{}))
	}()

	log.Info().Str("load", cmd.load).Str("save", savePath).Msg("editor started")
	h.loop()
	return nil
}
