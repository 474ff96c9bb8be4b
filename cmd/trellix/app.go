package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"trellix/internal/client"
	"trellix/internal/render"

	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	server     string

	cfg client.Config
	api *client.Client
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "trellix",
		Short:        "Kanban boards from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  trellix login --email me@example.com --password hunter22
  trellix board create "Roadmap"
  trellix column add <board> Todo
  trellix card add <board> Todo "Write the docs"
  trellix card move <board> <card> Done --index 0
  trellix card move <board> <card> <card> Done
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&a.server, "server", "", "API base URL, overrides the config file")

	cmd.AddCommand(
		newAuthCmd(a, "login", "Log in and remember the session"),
		newAuthCmd(a, "signup", "Create an account and log in"),
		newBoardsCmd(a),
		newBoardCmd(a),
		newColumnCmd(a),
		newCardCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	if a.configPath == "" {
		path, err := client.DefaultConfigPath()
		if err != nil {
			return err
		}
		a.configPath = path
	}
	cfg, err := client.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	a.cfg = cfg
	a.api = client.New(cfg.Server, cfg.Token)
	return nil
}

func (a *app) requireLogin() error {
	if a.cfg.Token == "" {
		return errors.New("not logged in: run `trellix login` first")
	}
	return nil
}

// session opens a board and loads its snapshot.
func (a *app) session(ctx context.Context, boardID string) (*client.Session, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	s := client.NewSession(a.api, boardID)
	if err := s.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return s, nil
}

func (a *app) show(s *client.Session) {
	fmt.Fprintln(a.out, render.Board(s.View(), s.Pending()))
}
