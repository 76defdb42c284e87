// Command segmask exports vector annotations into per-pixel segmentation
// masks. It reads decoded annotation files (JSON), renders them as
// semantic or instance masks, and writes the class-mapping sidecars.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"segmask/internal/annotation"
	"segmask/internal/export"
	"segmask/internal/imageenc"
	"segmask/internal/palette"
	"segmask/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "segmask",
		Usage:   "export vector annotations into per-pixel segmentation masks",
		Version: version.Full(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "directory of decoded annotation JSON files",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output directory for masks and sidecars",
				Value:   "out",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "color mode: index, grey or rgb",
				Value: "index",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output image format: png or tif",
				Value: "png",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of files rendered concurrently",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log per-file progress",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "semantic",
				Usage:  "render one category mask per file plus class_mapping.csv",
				Action: runSemantic,
			},
			{
				Name:  "instance",
				Usage: "render one binary mask per annotation plus instance_mask_annotations.csv",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rle",
						Usage: "also write binary run-length counts per instance",
					},
				},
				Action: runInstances,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildOptions translates CLI flags into export options.
func buildOptions(c *cli.Context) (export.Options, error) {
	opts := export.DefaultOptions()

	mode, err := palette.ParseMode(c.String("mode"))
	if err != nil {
		return opts, err
	}
	format, err := imageenc.ParseFormat(c.String("format"))
	if err != nil {
		return opts, err
	}

	logger := zap.NewNop()
	if c.Bool("verbose") {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return opts, err
		}
	}

	opts.Mode = mode
	opts.Format = format
	opts.Workers = c.Int("workers")
	opts.Logger = logger
	return opts, nil
}

// loadFiles reads every .json annotation file under the input directory,
// in lexical order so category first-seen order is reproducible.
func loadFiles(dir string) ([]*annotation.File, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no annotation files found in %s", dir)
	}
	sort.Strings(matches)

	files := make([]*annotation.File, 0, len(matches))
	for _, path := range matches {
		f, err := annotation.LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func runSemantic(c *cli.Context) error {
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}
	files, err := loadFiles(c.String("input"))
	if err != nil {
		return err
	}

	summary, err := export.Semantic(files, c.String("output"), opts)
	if err != nil {
		return err
	}
	return report(summary)
}

func runInstances(c *cli.Context) error {
	opts, err := buildOptions(c)
	if err != nil {
		return err
	}
	opts.WriteRLE = c.Bool("rle")
	files, err := loadFiles(c.String("input"))
	if err != nil {
		return err
	}

	summary, err := export.Instances(files, c.String("output"), opts)
	if err != nil {
		return err
	}
	return report(summary)
}

// report prints the run outcome and fails the process when any file was
// skipped, without hiding the files that did render.
func report(summary *export.Summary) error {
	fmt.Printf("wrote %d masks\n", len(summary.Written))
	if len(summary.Skipped) == 0 {
		return nil
	}

	fmt.Fprintf(os.Stderr, "skipped %d files:\n", len(summary.Skipped))
	for _, s := range summary.Skipped {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", s.Identifier, s.Err)
	}
	return fmt.Errorf("%d of %d files failed", len(summary.Skipped), len(summary.Skipped)+len(summary.Written))
}
