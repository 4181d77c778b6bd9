package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hardsub/internal/subrip"
	"hardsub/internal/video"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Show video duration, geometry, and the default subtitle region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			details, err := video.Probe(cmd.Context(), cfg.Extraction.FFprobe, args[0])
			if err != nil {
				return err
			}
			area := video.DefaultSubtitleArea(details.Width, details.Height)

			if jsonFlag {
				return writeJSON(cmd, map[string]any{
					"duration_s":       details.Duration,
					"fps":              details.FPS,
					"width":            details.Width,
					"height":           details.Height,
					"default_area":     []int{area.Min.X, area.Min.Y, area.Max.X, area.Max.Y},
					"frames_at_config": framesAtInterval(details.Duration, cfg.Extraction.SampleInterval),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Duration", "FPS", "Size", "Default area", "Frames at config interval"},
				[][]string{{
					subrip.FormatTimestamp(details.Duration),
					strconv.FormatFloat(details.FPS, 'f', 3, 64),
					fmt.Sprintf("%dx%d", details.Width, details.Height),
					fmt.Sprintf("%d,%d,%d,%d", area.Min.X, area.Min.Y, area.Max.X, area.Max.Y),
					strconv.Itoa(framesAtInterval(details.Duration, cfg.Extraction.SampleInterval)),
				}},
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func framesAtInterval(duration, interval float64) int {
	if interval <= 0 {
		return 0
	}
	return int(duration/interval) + 1
}
