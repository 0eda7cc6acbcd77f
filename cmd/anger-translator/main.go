package main

import (
	"github.com/go-go-golems/anger-translator/cmd/anger-translator/cmds"
	"github.com/go-go-golems/anger-translator/pkg/config"
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anger-translator",
	Short: "anger-translator rewrites what you type into something you can send",
	Long: `anger-translator rewrites what you type into something you can send.

Without a subcommand it opens the interactive translator. Every sentence is
rewritten in a more formal register shortly after you stop typing, or as soon
as you end it with punctuation.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// reinitialize the logger because we can now parse --log-level and co
		// from the command line flag
		return logging.InitLoggerFromCobra(cmd)
	},
	RunE: cmds.RunTUI,
}

func main() {
	err := initRootCmd()
	cobra.CheckErr(err)

	err = rootCmd.Execute()
	cobra.CheckErr(err)
}

func initRootCmd() error {
	helpSystem := help.NewHelpSystem()
	help_cmd.SetupCobraRootCommand(helpSystem, rootCmd)

	err := clay.InitGlazed(config.AppName, rootCmd)
	if err != nil {
		return err
	}
	err = cmds.InitConfig(config.AppName)
	if err != nil {
		return err
	}

	if err := cmds.AddSettingsFlags(rootCmd); err != nil {
		return err
	}
	cmds.AddTUIFlags(rootCmd)

	rootCmd.AddCommand(cmds.NewTUICommand())
	rootCmd.AddCommand(cmds.NewRewriteCommand())
	rootCmd.AddCommand(cmds.NewWatchCommand())
	rootCmd.AddCommand(cmds.NewConfigGroupCommand())

	return nil
}
