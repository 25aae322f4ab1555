package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/gap"
	"github.com/wikiforge/wikiforge/internal/output"
)

var gapsUniverseName string

var gapsCmd = &cobra.Command{
	Use: "gaps",
	Short: "Scan the output directory for unresolved page references",
	Long: `gaps extracts the wiki-internal link
	graph from every generated page, classifies dangling references (redirect,
		definition stub, full article, ignore), and mints stub pages for the ones
	that need one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pages, err := loadPages(cfg.Output.Directory, cfg.Output.FileExtension)
		if err != nil {
			return err
		}
		existing, err := output.DiscoverExistingPages(cfg.Output.Directory)
		if err != nil {
			return err
		}

		svc := buildGapService(cfg)
		ctx := context.Background()
		gaps, err := svc.DetectAndClassify(ctx, pages, existing)
		if err != nil {
			return fmt.Errorf("cli: detecting gaps: %w", err)
		}

		if flagDryRun {
			for _, g := range gaps {
				fmt.Fprintf(cmd.OutOrStdout(), "would stub %s (%s)\n", g.PageName, g.Type)
			}
			return nil
		}

		writer, err := output.New(cfg.Output.Directory, cfg.Output.FileExtension)
		if err != nil {
			return err
		}
		generator := buildStubGenerator(cfg)

		for _, g := range gaps {
			if g.Type != document.GapDefinition && g.Type != document.GapRedirect {
				continue
			}
			content, err := generator.Generate(ctx, gapsUniverseName, g)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "stub: skipping %s: %v\n", g.PageName, err)
				continue
			}
			path, err := writer.WriteArticle(g.PageName, content)
			if err != nil {
				return fmt.Errorf("cli: writing stub for %q: %w", g.PageName, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stubbed %s -> %s\n", g.PageName, path)
		}
		return nil
	},
}

func init() {
	gapsCmd.Flags().StringVar(&gapsUniverseName, "universe", "", "Topic universe name used in stub-generation prompts")
	rootCmd.AddCommand(gapsCmd)
}

// loadPages reads every file with extension under dir into gap.Page values,
// keyed by page-name stem, for the link scanner to walk.
func loadPages(dir, extension string) ([]gap.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cli: reading output directory %q: %w", dir, err)
	}

	var pages []gap.Page
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != extension {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("cli: reading %q: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), extension)
		pages = append(pages, gap.Page{Name: name, Content: string(data)})
	}
	return pages, nil
}
