package cmd

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/color"
	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/source"
	"github.com/vidloop/vidloop/store"
	"github.com/vidloop/vidloop/style"
)

// Status describes what the surface would loop on launch.
type Status struct {
	Active  source.Document `json:"active" jsonschema:"description=The source restored on launch."`
	Target  string          `json:"target" jsonschema:"description=What the player opens for the active source."`
	Backend string          `json:"backend" jsonschema:"enum=file,enum=keyring,description=Where the picked clip is remembered."`
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolP("json", "j", false, "Print the status as JSON")
	statusCmd.Flags().Bool("schema", false, "Print the JSON schema of the status")
	statusCmd.MarkFlagsMutuallyExclusive("json", "schema")
	statusCmd.SetOut(os.Stdout)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which clip loops on launch",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&Status{})))
			return
		}

		s, err := store.FromConfig()
		handleErr(err)

		status := currentStatus(s)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(status))
			return
		}

		label := "default clip"
		if status.Active.Kind == source.KindExternal.String() {
			label = "picked clip"
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Clip), style.Bold(label))
		cmd.Println(style.Fg(color.Purple)(status.Target))
		cmd.Println(style.Faint("remembered in " + status.Backend))
	},
}

func currentStatus(s store.Store) Status {
	sel := selector.New()
	sel.Initialize(store.LoadRef(s))

	backend := viper.GetString(key.StoreBackend)
	if backend == "" {
		backend = store.BackendFile
	}

	return Status{
		Active:  sel.Active().Document(),
		Target:  player.Target(sel.Active()),
		Backend: backend,
	}
}
