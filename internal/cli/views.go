package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotforge/barchart/pkg/pipeline"
	"github.com/plotforge/barchart/pkg/views"
)

// newViewStore opens the file-backed view store under the user config dir.
func newViewStore() (views.Store, error) {
	return views.NewFileStore("")
}

// newViewsCmd creates the views management command.
func newViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved chart configurations",
	}

	cmd.AddCommand(newViewsSaveCmd())
	cmd.AddCommand(newViewsListCmd())
	cmd.AddCommand(newViewsDeleteCmd())

	return cmd
}

// newViewsSaveCmd creates the "views save" subcommand: it saves a TOML
// chart config under a name for reuse with `render --view`.
func newViewsSaveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save a chart configuration under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadChartConfig(configPath)
			if err != nil {
				return err
			}
			var opts pipeline.Options
			cfg.apply(&opts)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			store, err := newViewStore()
			if err != nil {
				return err
			}
			v := views.New(args[0], opts)
			if err := store.Put(cmd.Context(), v); err != nil {
				return err
			}
			printSuccess("Saved view %q", v.Name)
			printDetail("ID: %s", v.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML chart config file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// newViewsListCmd creates the "views list" subcommand.
func newViewsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newViewStore()
			if err != nil {
				return err
			}
			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No saved views")
				return nil
			}
			for _, v := range list {
				fmt.Println(StyleTitle.Render(v.Name))
				printDetail("sort=%s/%s columns=%d,%d updated=%s",
					v.Config.Sort, v.Config.Direction,
					v.Config.Columns.Category, v.Config.Columns.Count,
					v.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// newViewsDeleteCmd creates the "views delete" subcommand.
func newViewsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newViewStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted view %q", args[0])
			return nil
		},
	}
}
