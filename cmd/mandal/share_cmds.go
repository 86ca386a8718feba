package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mandal/pkg/digest"
	"github.com/vanderheijden86/mandal/pkg/export"
	"github.com/vanderheijden86/mandal/pkg/ui"
	"github.com/vanderheijden86/mandal/pkg/version"
)

func newDigestCmd(app *App) *cobra.Command {
	var (
		format string
		copyIt bool
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the board as a text outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.persistence()
			if err != nil {
				return err
			}
			b := p.Load()

			var text string
			switch strings.ToLower(format) {
			case "text", "":
				text = digest.Build(b)
			case "md", "markdown":
				text = digest.Markdown(b)
			default:
				return fmt.Errorf("unsupported format %q (want text or md)", format)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if copyIt {
				if err := ui.SystemClipboard(text); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), ui.StatusCopyFailed)
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), ui.StatusCopied)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|md)")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "Also copy the digest to the clipboard")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var (
		format      string
		dir         string
		fontRegular string
		fontBold    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the board as an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = app.cfg.Export.Format
			}
			formats, err := export.Formats(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = app.cfg.Export.Dir
			}
			if fontRegular == "" {
				fontRegular = app.cfg.Export.FontRegular
			}
			if fontBold == "" {
				fontBold = app.cfg.Export.FontBold
			}
			fonts, err := export.LoadFonts(fontRegular, fontBold)
			if err != nil {
				return err
			}

			p, err := app.persistence()
			if err != nil {
				return err
			}
			paths, err := export.SaveAll(cmd.Context(), p.Load(), dir, formats, fonts)
			if err != nil {
				return fmt.Errorf("exporting image: %w", err)
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.StatusExported)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Image format (png|svg|all); default from config")
	cmd.Flags().StringVarP(&dir, "output", "o", "", "Output directory; default from config")
	cmd.Flags().StringVar(&fontRegular, "font-regular", "", "TrueType font for cell text")
	cmd.Flags().StringVar(&fontBold, "font-bold", "", "TrueType font for headings and center cells")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// The config is not needed to print the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mandal %s\n", version.Version)
		},
	}
}
