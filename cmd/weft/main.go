// Command weft composes a content template into a skeleton document from
// the command line. Variable bindings come from YAML or JSON data files,
// one per context.
package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/template"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "weft",
		Short:         "Compose markup templates into skeleton documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(renderCmd())
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		root         string
		ext          string
		skeletonName string
		dataFile     string
		skeletonData string
		output       string
		rawTags      []string
		verbose      bool
	)

	c := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a content template against a skeleton and merge them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			contentCtx, err := loadContext(dataFile)
			if err != nil {
				return err
			}
			skeletonCtx, err := loadContext(skeletonData)
			if err != nil {
				return err
			}

			loader := weft.NewLoader(
				template.WithBaseDir(root),
				template.WithExtension(ext),
			)
			composer := weft.NewComposer(
				weft.WithLoader(loader),
				weft.WithRawTags(rawTags...),
				weft.WithLogger(logger),
			)

			doc, err := composer.Render(args[0], contentCtx, skeletonCtx, skeletonName)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := dom.Render(&buf, doc); err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), buf.String())
				return nil
			}
			if err := atomic.WriteFile(output, &buf); err != nil {
				return fmt.Errorf("write %q: %w", output, err)
			}
			logger.Info("document written", "path", output)
			return nil
		},
	}

	c.Flags().StringVar(&root, "root", ".", "directory template names resolve against")
	c.Flags().StringVar(&ext, "ext", ".html", "default template filename extension")
	c.Flags().StringVarP(&skeletonName, "skeleton", "s", "skeleton", "skeleton template name")
	c.Flags().StringVarP(&dataFile, "data", "d", "", "YAML/JSON file with content context bindings")
	c.Flags().StringVar(&skeletonData, "skeleton-data", "", "YAML/JSON file with skeleton context bindings")
	c.Flags().StringVarP(&output, "out", "o", "", "output file (stdout if empty)")
	c.Flags().StringSliceVar(&rawTags, "raw-tag", nil, "extra tag names parsed verbatim")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return c
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadContext decodes a YAML (or JSON, a YAML subset) mapping file into a
// fresh scope. An empty path yields an empty scope.
func loadContext(path string) (*weft.Scope, error) {
	sc := weft.NewScope()
	if path == "" {
		return sc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %q: %w", path, err)
	}
	bindings := map[string]any{}
	if err := yaml.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("decode data file %q: %w", path, err)
	}
	for name, value := range bindings {
		sc.Set(name, value)
	}
	return sc, nil
}
