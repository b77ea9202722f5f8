package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pders01/fsearch/internal/catalog"
	"github.com/pders01/fsearch/internal/config"
	"github.com/pders01/fsearch/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			title := lipgloss.NewRenderer(out).NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#4ECDC4"))

			fmt.Fprintln(out, title.Render("fsearch "+Version))
			fmt.Fprintln(out, "File content search")
			fmt.Fprintln(out, "github.com/pders01/fsearch")
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := validation.NewSecurePathHandler().GetSecureConfigPath("")
			if err != nil {
				return err
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	})

	return cmd
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "Describe the search modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			f, ok := out.(*os.File)
			if !ok || !isatty.IsTerminal(f.Fd()) {
				_, err = fmt.Fprint(out, c.Markdown())
				return err
			}

			width, _, err := term.GetSize(int(f.Fd()))
			if err != nil {
				width = 0
			}
			rendered, err := c.Render(width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
}
