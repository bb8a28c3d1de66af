package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/pipeline"
	"github.com/matzehuels/zenposter/pkg/scene"
)

func (c *CLI) pickCommand() *cobra.Command {
	opts := renderOpts{
		seed:  pipeline.DefaultSeed,
		index: 1,
	}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a mode interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPick(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory, or file with --preview (required)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "base seed")
	cmd.Flags().IntVar(&opts.index, "index", opts.index, "artwork index within the seed")
	cmd.Flags().StringVar(&opts.title, "title", "", "title text")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "write only a JPEG preview of this width")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runPick(ctx context.Context, opts renderOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	reg, err := scene.NewRegistry(cfg.Palettes)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(NewModeListModel(reg), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("mode picker: %w", err)
	}
	sel := final.(ModeListModel).Selected
	if sel == nil {
		printInfo("No mode selected")
		return nil
	}

	opts.mode = sel.ID.String()
	return c.runRender(ctx, opts)
}
