// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-catalog/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Page through the configured collection",
	Long: `List walks the configured collection page by page without a query term.
It shares the enrichment and save behavior of search.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
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

	result, err := client.List(ctx, page, pageSize)
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

func init() {
	listCmd.Flags().Int("page", 1, "result page number")
	listCmd.Flags().Int("page-size", 0, "hits per page (0 = configured default)")
	listCmd.Flags().String("collection", "", "collection to list")
	listCmd.Flags().Bool("metadata", false, "enrich each hit with normalized metadata")
	listCmd.Flags().String("save", "", "write the result page to a YAML file")
	listCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
}
