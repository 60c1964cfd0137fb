package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/snapshot"
	"github.com/idilsaglam/tada/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the full snapshot as indented JSON",
		Args:  exactArgs(0, "tada export"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(st *store.Store) error {
				b, err := snapshot.EncodeIndent(st.Lists())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			})
		},
	}
}
