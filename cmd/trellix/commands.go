package main

import (
	"errors"
	"fmt"

	"trellix/internal/client"
	"trellix/internal/render"

	"github.com/spf13/cobra"
)

func newAuthCmd(a *app, use, short string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authenticate := a.api.Login
			if use == "signup" {
				authenticate = a.api.Signup
			}
			token, err := authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.cfg.Token = token
			a.cfg.Email = email
			if err := client.SaveConfig(a.configPath, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "logged in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newBoardsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List your boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			boards, err := a.api.Boards(cmd.Context())
			if err != nil {
				return err
			}
			summaries := make([]render.Summary, len(boards))
			for i, b := range boards {
				summaries[i] = render.Summary{ID: b.ID, Name: b.Name, Color: b.Color}
			}
			fmt.Fprintln(a.out, render.Boards(summaries))
			return nil
		},
	}
}

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create, show, rename or delete a board",
	}

	var color string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			created, err := a.api.CreateBoard(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created board %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	create.Flags().StringVar(&color, "color", "", "background color, e.g. #c0ffee")

	show := &cobra.Command{
		Use:   "show <board>",
		Short: "Show a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <board> <name>",
		Short: "Rename a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.RenameBoard(cmd.Context(), args[1]); err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <board>",
		Short: "Delete a board with all its columns and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.api.DeleteBoard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted board %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, show, rename, del)
	return cmd
}

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add or rename columns",
	}

	add := &cobra.Command{
		Use:   "add <board> <name>",
		Short: "Append a column to a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.AddColumn(cmd.Context(), args[1]); err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <board> <column> <name>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			columnID, err := resolveColumn(s.View(), args[1])
			if err != nil {
				return err
			}
			if err := s.RenameColumn(cmd.Context(), columnID, args[2]); err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}

	cmd.AddCommand(add, rename)
	return cmd
}

func newCardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Add, move or delete cards",
	}

	var content string
	add := &cobra.Command{
		Use:   "add <board> <column> <title>",
		Short: "Add a card to the bottom of a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			columnID, err := resolveColumn(s.View(), args[1])
			if err != nil {
				return err
			}
			var body *string
			if cmd.Flags().Changed("content") {
				body = &content
			}
			if _, err := s.AddCard(cmd.Context(), columnID, args[2], body); err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}
	add.Flags().StringVar(&content, "content", "", "card description")

	var index int
	move := &cobra.Command{
		Use:   "move <board> <card>... <column>",
		Short: "Move one or more cards to a position in a column",
		Long: "Move one or more cards to a position in a column. The moves are sent " +
			"concurrently; the board is shown with them pending, then once confirmed.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view := s.View()
			columnID, err := resolveColumn(view, args[len(args)-1])
			if err != nil {
				return err
			}
			cards := args[1 : len(args)-1]
			itemIDs := make([]string, len(cards))
			for i, ref := range cards {
				if itemIDs[i], err = resolveCard(view, ref); err != nil {
					return err
				}
			}

			results := s.MoveCards(cmd.Context(), itemIDs, columnID, index)
			if len(results) > 1 {
				a.show(s)
			}
			s.Wait()
			var errs []error
			for i, r := range results {
				if err := <-r; err != nil {
					errs = append(errs, fmt.Errorf("move %s: %w", cards[i], err))
				}
			}
			a.show(s)
			return errors.Join(errs...)
		},
	}
	move.Flags().IntVar(&index, "index", -1, "position in the column, 0 is the top (default: bottom)")

	del := &cobra.Command{
		Use:   "delete <board> <card>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveCard(s.View(), args[1])
			if err != nil {
				return err
			}
			if err := s.DeleteCard(cmd.Context(), itemID); err != nil {
				return err
			}
			a.show(s)
			return nil
		},
	}

	cmd.AddCommand(add, move, del)
	return cmd
}
