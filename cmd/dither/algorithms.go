package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/internal/config"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List algorithm identifiers and the engine each resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderAlgorithms(dither.DefaultRegistry()))
			return nil
		},
	}
}

func renderAlgorithms(reg *dither.Registry) string {
	rows := []string{titleStyle.Render("Algorithms"), ""}
	for _, a := range dither.Algorithms() {
		e, ok := reg.Resolve(a)
		status := okStyle.Render(e.Params.String())
		if !ok {
			status = fallbackStyle.Render("falls back to " + string(e.Algorithm))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(string(a)),
			nameStyle.Render(a.DisplayName()),
			familyStyle.Render(a.Family().String()),
			status,
		))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func newPresetsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in and session presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(cmd, opts, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPresets(doc))
			return nil
		},
	}
}

func renderPresets(doc *config.Document) string {
	row := func(p config.Preset) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(p.Name),
			nameStyle.Render(p.Settings.Algorithm().DisplayName()),
			subtleStyle.Render(p.Description),
		)
	}

	rows := []string{titleStyle.Render("Built-in presets"), ""}
	for _, p := range config.Presets() {
		rows = append(rows, row(p))
	}
	if len(doc.Presets) > 0 {
		rows = append(rows, "", titleStyle.Render("Session presets"), "")
		for _, pd := range doc.Presets {
			p, _ := doc.LookupPreset(pd.Name)
			rows = append(rows, row(p))
		}
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}
