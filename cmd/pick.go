package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/color"
	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/selector"
	"github.com/vidloop/vidloop/store"
	"github.com/vidloop/vidloop/style"
)

func init() {
	rootCmd.AddCommand(pickCmd)
	pickCmd.Flags().StringP("dir", "d", "", "Directory to pick from")
	pickCmd.SetOut(os.Stdout)
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick the clip to loop without opening the player",
	Long:  "Choose a video from your library with a fuzzy prompt. The choice is remembered and looped on the next launch.",
	Run: func(cmd *cobra.Command, args []string) {
		library := picker.LibraryFromConfig()
		if dir := lo.Must(cmd.Flags().GetString("dir")); dir != "" {
			library = picker.NewLibrary(dir, viper.GetStringSlice(key.PickerExtensions))
		}

		s, err := store.FromConfig()
		handleErr(err)

		sel, err := pickClip(cmd.Context(), s, picker.NewPrompt(library))
		handleErr(err)

		cmd.Printf(
			"%s looping %s from now on\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(sel.Active().Ref()),
		)
	},
}

// pickClip runs the pick flow against s and confirms the choice was saved.
func pickClip(ctx context.Context, s store.Store, p picker.Picker) (*selector.Selector, error) {
	sel := selector.New()
	sel.Initialize(store.LoadRef(s))

	if err := drive(ctx, selector.Env{Store: s}, sel, p, sel.SelectExternal()); err != nil {
		return sel, err
	}

	// Apply only logs storage failures
	if store.LoadRef(s).OrEmpty() != sel.Active().Ref() {
		return sel, errors.New("the picked clip could not be saved")
	}
	return sel, nil
}

// drive carries out effects until none are left, answering interactive
// ones with p. A notice ends the run as an error.
func drive(ctx context.Context, env selector.Env, sel *selector.Selector, p picker.Picker, effects []selector.Effect) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for len(effects) > 0 {
		interactive, err := selector.Apply(ctx, env, effects)
		if err != nil {
			return err
		}

		effects = nil
		for _, e := range interactive {
			switch e.Kind {
			case selector.EffectRequestPermission:
				permission, err := p.RequestPermission(ctx)
				if err != nil {
					return fmt.Errorf("request library access: %w", err)
				}
				effects = append(effects, sel.PermissionResolved(permission)...)
			case selector.EffectPickVideo:
				result, err := p.Pick(ctx)
				if err != nil {
					return err
				}
				effects = append(effects, sel.PickResolved(result)...)
			case selector.EffectNotice:
				return e.Err
			}
		}
	}

	return nil
}
