// Package cmd implements the command-line interface for vidloop.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/color"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/key"
	"github.com/vidloop/vidloop/log"
	"github.com/vidloop/vidloop/picker"
	"github.com/vidloop/vidloop/player"
	"github.com/vidloop/vidloop/store"
	"github.com/vidloop/vidloop/style"
	"github.com/vidloop/vidloop/tui"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("store", "", "Where the picked clip is remembered (file, keyring)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("store", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{store.BackendFile, store.BackendKeyring}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StoreBackend, rootCmd.PersistentFlags().Lookup("store")))

	rootCmd.Flags().BoolP("fullscreen", "f", true, "Open the player window fullscreen")
	lo.Must0(viper.BindPFlag(key.VideoFullscreen, rootCmd.Flags().Lookup("fullscreen")))

	rootCmd.Flags().StringP("dir", "d", "", "Directory the clip picker opens in")
	lo.Must0(viper.BindPFlag(key.PickerDirectory, rootCmd.Flags().Lookup("dir")))
}

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Loop a video clip forever and switch it with a tap sequence",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiCyan).Render("    - Loop a video clip forever and switch it with a tap sequence"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		s, err := store.FromConfig()
		handleErr(err)

		surface := player.NewSurface(player.NewMPV(player.OptionsFromConfig()))

		err = tui.Run(&tui.Options{
			Store:   s,
			Engine:  surface,
			Library: picker.LibraryFromConfig(),
		})

		if closeErr := surface.Close(); closeErr != nil {
			log.Warnf("close player: %v", closeErr)
		}
		handleErr(err)
	},
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
