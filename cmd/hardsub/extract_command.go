package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hardsub/internal/config"
	"hardsub/internal/extractor"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		areaFlag     string
		intervalFlag float64
		outFlag      string
		jsonFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "extract <video>",
		Short: "Extract burned-in subtitles from a video into an SRT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if err := applyExtractOverrides(cfg, areaFlag, intervalFlag, outFlag); err != nil {
				return err
			}

			ext, err := extractor.New(cfg, logger)
			if err != nil {
				return err
			}
			defer ext.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, runErr := ext.Run(runCtx, args[0])
			if runErr != nil && !result.Partial {
				return runErr
			}

			if jsonFlag {
				if err := writeJSON(cmd, extractReport(result)); err != nil {
					return err
				}
				return runErr
			}

			out := cmd.OutOrStdout()
			if result.Partial {
				fmt.Fprintf(out, "OCR failed partway; partial subtitles written to %s\n", result.SubtitlePath)
			} else {
				fmt.Fprintf(out, "Wrote %s\n", result.SubtitlePath)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Cues", "Frames", "Frames with text", "Malformed", "Filtered"},
				[][]string{{
					strconv.Itoa(len(result.Cues)),
					strconv.Itoa(result.FramesSampled),
					strconv.Itoa(result.FramesWithText),
					strconv.Itoa(result.MalformedDropped),
					strconv.Itoa(result.FilteredDropped),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return runErr
		},
	}

	cmd.Flags().StringVar(&areaFlag, "area", "", "Subtitle region as x1,y1,x2,y2 (default: bottom quarter)")
	cmd.Flags().Float64Var(&intervalFlag, "interval", 0, "Seconds between sampled frames")
	cmd.Flags().StringVar(&outFlag, "out", "", "Directory for the generated SRT file")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit a JSON report instead of a table")
	return cmd
}

type extractJSON struct {
	SubtitlePath     string  `json:"subtitle_path"`
	Cues             int     `json:"cues"`
	FramesSampled    int     `json:"frames_sampled"`
	FramesWithText   int     `json:"frames_with_text"`
	MalformedDropped int     `json:"malformed_dropped"`
	FilteredDropped  int     `json:"filtered_dropped"`
	VideoDuration    float64 `json:"video_duration_s"`
	Partial          bool    `json:"partial"`
}

func extractReport(result extractor.Result) extractJSON {
	return extractJSON{
		SubtitlePath:     result.SubtitlePath,
		Cues:             len(result.Cues),
		FramesSampled:    result.FramesSampled,
		FramesWithText:   result.FramesWithText,
		MalformedDropped: result.MalformedDropped,
		FilteredDropped:  result.FilteredDropped,
		VideoDuration:    result.VideoDuration,
		Partial:          result.Partial,
	}
}

// applyExtractOverrides folds the extract flags into the loaded config and
// revalidates. The output directory gets the same tilde expansion as TOML
// path values.
func applyExtractOverrides(cfg *config.Config, areaFlag string, intervalFlag float64, outFlag string) error {
	if areaFlag != "" {
		area, err := parseArea(areaFlag)
		if err != nil {
			return err
		}
		cfg.Extraction.Area = area
	}
	if intervalFlag > 0 {
		cfg.Extraction.SampleInterval = intervalFlag
	}
	if outFlag != "" {
		expanded, err := config.ExpandPath(outFlag)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	return cfg.Validate()
}

// parseArea parses "x1,y1,x2,y2" into the four-value form the config uses.
func parseArea(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, errors.New("area must have 4 comma-separated values: x1,y1,x2,y2")
	}
	coords := make([]int, 4)
	for i, part := range parts {
		coord, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid area coordinate %q", part)
		}
		coords[i] = coord
	}
	return coords, nil
}
