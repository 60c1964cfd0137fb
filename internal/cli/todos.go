package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

func newTodosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Manage the todos of one list",
	}
	cmd.AddCommand(newTodosLsCmd(app))
	cmd.AddCommand(newTodosAddCmd(app))
	cmd.AddCommand(newTodosEditCmd(app))
	cmd.AddCommand(newTodosRmCmd(app))
	return cmd
}

func findList(st *store.Store, id string) (model.List, error) {
	l, ok := st.List(id)
	if !ok {
		return model.List{}, fmt.Errorf("no list with id %s", id)
	}
	return l, nil
}

func hasTodo(l model.List, id string) bool {
	for _, it := range l.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func newTodosLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <list-id>",
		Short: "Show the todos of a list",
		Args:  exactArgs(1, "tada todos ls <list-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(st *store.Store) error {
				l, err := findList(st, args[0])
				if err != nil {
					return err
				}
				ui.Panel(cmd.OutOrStdout(), ui.TodoLines(l))
				return nil
			})
		},
	}
}

func newTodosAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list-id> <title...>",
		Short: "Add a todo to a list",
		Args:  minArgs(2, "tada todos add <list-id> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := view.ValidateTitle(strings.Join(args[1:], " "))
			if err != nil {
				return usagef("add: %s", view.InvalidInputMessage)
			}
			return app.withStore(cmd, func(st *store.Store) error {
				if _, err := findList(st, args[0]); err != nil {
					return err
				}
				it := view.NewItem(title, time.Now())
				if err := st.AddTodo(args[0], it).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added todo %s (%s)", it.Title, it.ID))
				return nil
			})
		},
	}
}

func newTodosEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <list-id> <todo-id> <title...>",
		Short: "Retitle a todo",
		Args:  minArgs(3, "tada todos edit <list-id> <todo-id> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := view.ValidateTitle(strings.Join(args[2:], " "))
			if err != nil {
				return usagef("edit: %s", view.InvalidInputMessage)
			}
			return app.withStore(cmd, func(st *store.Store) error {
				l, err := findList(st, args[0])
				if err != nil {
					return err
				}
				if !hasTodo(l, args[1]) {
					return fmt.Errorf("no todo with id %s in list %s", args[1], args[0])
				}
				if err := st.UpdateTodo(args[0], args[1], title).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "updated")
				return nil
			})
		},
	}
}

func newTodosRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list-id> <todo-id>",
		Short: "Delete a todo",
		Args:  exactArgs(2, "tada todos rm <list-id> <todo-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(st *store.Store) error {
				l, err := findList(st, args[0])
				if err != nil {
					return err
				}
				if !hasTodo(l, args[1]) {
					return fmt.Errorf("no todo with id %s in list %s", args[1], args[0])
				}
				if err := st.DeleteTodo(args[0], args[1]).Wait(cmd.Context()); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}
