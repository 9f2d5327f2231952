// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-catalog/internal/registry"
	"github.com/pdiddy/study-catalog/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the registry for studies",
	Long: `Search runs a paged full-text query against the registry. When a
collection is configured the query is scoped to it. With --metadata each
hit is enriched with its normalized metadata record; failures on
individual hits never fail the page.

Use --save to write the result page to a YAML file for later reloading
or catalog ingestion.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	collection, _ := cmd.Flags().GetString("collection")
	if collection != "" {
		cfg.Registry.Collection = collection
	}

	client := registry.NewClient(cfg.Registry, logger)
	ctx := cmd.Context()

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	withMetadata, _ := cmd.Flags().GetBool("metadata")

	query := strings.Join(args, " ")
	result, err := client.Search(ctx, query, page, pageSize)
	if err != nil {
		return err
	}
	result.Hits = client.EnrichHits(ctx, result.Hits, withMetadata)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := registry.WriteResultFile(savePath, cfg.Registry.Collection, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(result)
	}
	printSearchPage(result)
	return nil
}

func printSearchPage(page types.SearchPage) {
	if len(page.Hits) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("%-14s  %-60s  %s\n", "Accession", "Title", "Released")
	fmt.Println(strings.Repeat("-", 90))

	for _, hit := range page.Hits {
		title := hit.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Printf("%-14s  %-60s  %s\n", hit.AccessionID(), title, hit.ReleaseDate)
	}

	fmt.Printf("\npage %d (%d per page), %d total hits\n", page.Page, page.PageSize, page.TotalHits)
}

func init() {
	searchCmd.Flags().Int("page", 1, "result page number")
	searchCmd.Flags().Int("page-size", 0, "hits per page (0 = configured default)")
	searchCmd.Flags().String("collection", "", "scope the search to one collection")
	searchCmd.Flags().Bool("metadata", false, "enrich each hit with normalized metadata")
	searchCmd.Flags().String("save", "", "write the result page to a YAML file")
	searchCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(searchCmd)
}
