package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scanedit/internal/config"
)

var editCmd = &cobra.Command{
	Use:   "edit <image>",
	Short: "Edit the text regions of an image interactively",
	Long: `Load an image, start extracting it and read editing commands from stdin,
one per line. Coordinates are view coordinates at the current zoom.

Type "help" for the command list. Changes to the config file are picked up
while the session runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, mgr, _, err := openSession()
		if err != nil {
			return err
		}
		defer s.ctrl.Close()
		go s.pool.Start(ctx)

		out := cmd.OutOrStdout()
		r := newREPL(s, out)
		s.ctrl.Subscribe(r.observe)

		commands := make(chan func())
		mgr.OnChange(func(cfg *config.Config) {
			select {
			case commands <- func() { s.applyConfig(cfg) }:
			case <-ctx.Done():
			}
		})
		mgr.WatchConfig()

		if err := s.ctrl.LoadImage(args[0]); err != nil {
			return err
		}

		go readCommands(ctx, cancel, os.Stdin, out, commands, r)

		if err := s.ctrl.Run(ctx, commands); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// readCommands forwards each input line to the control loop and waits for
// it to run before prompting again. It cancels the session on quit or EOF.
func readCommands(ctx context.Context, cancel context.CancelFunc, in io.Reader, out io.Writer, commands chan<- func(), r *repl) {
	defer cancel()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		done := make(chan bool, 1)
		cmd := func() {
			err := r.exec(line)
			if err != nil && !errors.Is(err, errQuit) {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			done <- errors.Is(err, errQuit)
		}

		select {
		case commands <- cmd:
		case <-ctx.Done():
			return
		}
		select {
		case quit := <-done:
			if quit {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
}
