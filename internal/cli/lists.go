package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage lists",
	}
	cmd.AddCommand(newListsLsCmd(app))
	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsRenameCmd(app))
	cmd.AddCommand(newListsRmCmd(app))
	return cmd
}

func newListsLsCmd(app *App) *cobra.Command {
	var search string
	var page int
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show one page of lists",
		Args:  exactArgs(0, "tada lists ls [--search q] [--page n]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(st *store.Store) error {
				lists := view.Filter(st.Lists(), search)
				pg := view.Pages(len(lists), page, app.cfg.PageSize)
				ui.Panel(cmd.OutOrStdout(), ui.ListLines(lists, pg, search))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only lists whose title contains this (case-insensitive)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a list",
		Args:  minArgs(1, "tada lists add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := view.ValidateTitle(strings.Join(args, " "))
			if err != nil {
				return usagef("add: %s", view.InvalidInputMessage)
			}
			return app.withStore(cmd, func(st *store.Store) error {
				l := view.NewList(title)
				if err := st.AddList(l).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added list %s (%s)", l.Title, l.ID))
				return nil
			})
		},
	}
}

func newListsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list-id> <title...>",
		Short: "Rename a list",
		Args:  minArgs(2, "tada lists rename <list-id> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := view.ValidateTitle(strings.Join(args[1:], " "))
			if err != nil {
				return usagef("rename: %s", view.InvalidInputMessage)
			}
			return app.withStore(cmd, func(st *store.Store) error {
				if _, ok := st.List(args[0]); !ok {
					return fmt.Errorf("no list with id %s", args[0])
				}
				if err := st.UpdateList(args[0], title).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "renamed")
				return nil
			})
		},
	}
}

func newListsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list-id>",
		Short: "Delete a list and all its todos",
		Args:  exactArgs(1, "tada lists rm <list-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(st *store.Store) error {
				if _, ok := st.List(args[0]); !ok {
					return fmt.Errorf("no list with id %s", args[0])
				}
				if err := st.DeleteList(args[0]).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}
