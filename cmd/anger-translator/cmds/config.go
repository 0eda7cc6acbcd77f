package cmds

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-go-golems/anger-translator/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ConfigCommand struct {
	*cobra.Command
}

func NewConfigGroupCommand() *cobra.Command {
	cmd := &ConfigCommand{}

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Commands for manipulating the configuration file",
	}

	cobraCmd.AddCommand(cmd.newListCommand())
	cobraCmd.AddCommand(cmd.newGetCommand())
	cobraCmd.AddCommand(cmd.newSetCommand())
	cobraCmd.AddCommand(cmd.newDeleteCommand())
	cobraCmd.AddCommand(cmd.newEditCommand())

	cmd.Command = cobraCmd
	return cobraCmd
}

func configPath() (string, error) {
	p := viper.ConfigFileUsed()
	if p != "" {
		return p, nil
	}
	return config.GetDefaultConfigPath()
}

func (c *ConfigCommand) getEditor() (*config.ConfigEditor, error) {
	p, err := configPath()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config_path", p).Msg("using config file")

	editor, err := config.NewConfigEditor(p)
	if err != nil {
		return nil, errors.Wrap(err, "could not create config editor")
	}
	return editor, nil
}

func (c *ConfigCommand) newListCommand() *cobra.Command {
	var concise bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration keys and values",
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.getEditor()
			if err != nil {
				return err
			}

			if concise {
				for _, key := range editor.ListKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			}

			for pair := editor.GetAll().Oldest(); pair != nil; pair = pair.Next() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n",
					pair.Key, config.Redact(pair.Key, config.FormatValue(pair.Value)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&concise, "concise", "c", false, "Only show keys")
	return cmd
}

func (c *ConfigCommand) newGetCommand() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.getEditor()
			if err != nil {
				return err
			}

			key := args[0]
			value, err := editor.Get(key)
			if err != nil {
				return err
			}

			s := config.FormatValue(value)
			if !reveal {
				s = config.Redact(key, s)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print secrets unredacted")
	return cmd
}

func (c *ConfigCommand) newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.getEditor()
			if err != nil {
				return err
			}
			if err := editor.Set(args[0], args[1]); err != nil {
				return err
			}
			return editor.Save()
		},
	}
}

func (c *ConfigCommand) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.getEditor()
			if err != nil {
				return err
			}
			if err := editor.Delete(args[0]); err != nil {
				return err
			}
			return editor.Save()
		},
	}
}

func (c *ConfigCommand) newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration file in your default editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vim"
			}

			p, err := configPath()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return errors.Wrap(err, "could not create config directory")
			}

			editCmd := exec.Command(editor, p)
			editCmd.Stdin = os.Stdin
			editCmd.Stdout = os.Stdout
			editCmd.Stderr = os.Stderr

			return editCmd.Run()
		},
	}
}
