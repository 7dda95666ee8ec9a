package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/vidloop/vidloop/color"
	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/store"
	"github.com/vidloop/vidloop/style"
)

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.SetOut(os.Stdout)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the picked clip and go back to the default one",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := store.FromConfig()
		handleErr(err)

		handleErr(forget(cmd.Context(), s))
		cmd.Println(style.Fg(color.Green)(icon.Get(icon.Success)) + " the default clip will loop from now on")
	},
}

// forget clears the saved clip the same way the selection menu does.
func forget(ctx context.Context, s store.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sel := selector.New()
	sel.Initialize(store.LoadRef(s))

	if _, err := selector.Apply(ctx, selector.Env{Store: s}, sel.ClearCache()); err != nil {
		return err
	}

	// Apply only logs storage failures
	if store.LoadRef(s).IsPresent() {
		return errors.New("the saved clip could not be removed")
	}
	return nil
}
