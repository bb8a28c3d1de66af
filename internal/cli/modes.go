package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/scene"
)

func (c *CLI) modesCommand() *cobra.Command {
	var palettes bool

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List artwork modes and palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			reg, err := scene.NewRegistry(cfg.Palettes)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, modesTable(reg))
			if palettes {
				fmt.Fprintln(stdout, palettesTable(reg))
			}
			printNextStep("Render one", appName+" render sacred --out sacred")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&palettes, "palettes", "p", false, "also list every palette")
	return cmd
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func modesTable(reg *scene.Registry) string {
	var rows [][]string
	for _, m := range reg.Modes() {
		p, err := reg.Palette(m.Palette)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(int(m.ID)),
			m.ID.String(),
			m.Name,
			chip(reg.Background(m.ID), m.Background),
			m.Palette,
			swatch(p.Colors()),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Slug", "Mode", "Background", "Palette", "Colors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func palettesTable(reg *scene.Registry) string {
	var rows [][]string
	for _, name := range reg.PaletteNames() {
		p, err := reg.Palette(name)
		if err != nil {
			continue
		}
		rows = append(rows, []string{name, strconv.Itoa(p.Len()), swatch(p.Colors())})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Palette", "Size", "Colors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
