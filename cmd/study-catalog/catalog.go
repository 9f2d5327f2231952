// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-catalog/internal/catalog"
	"github.com/pdiddy/study-catalog/internal/registry"
	"github.com/pdiddy/study-catalog/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local study catalog (ingest, query, facets, export)",
	Long: `Catalog manages a local SQLite index of normalized study metadata with
full-text search over titles, descriptions, and authors, plus facet
filters over collection, case study, regulatory question, flow step, and
organism.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest [result-file.yaml | accession...]",
	Short: "Index studies into the catalog",
	Long: `Ingest indexes normalized metadata into the catalog. Pass a saved result
file from search --save with --from-file, or one or more accessions to
fetch and normalize directly from the registry. Records carrying an
extraction error are skipped.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	client := registry.NewClient(cfg.Registry, logger)

	var records []types.StudyMetadata

	if fromFile, _ := cmd.Flags().GetString("from-file"); fromFile != "" {
		rf, err := registry.ReadResultFile(fromFile)
		if err != nil {
			return err
		}
		for _, hit := range rf.Hits {
			if hit.Metadata != nil {
				records = append(records, *hit.Metadata)
				continue
			}
			md, err := client.StudyMetadata(ctx, hit.AccessionID())
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v\n", hit.AccessionID(), err)
				continue
			}
			records = append(records, md)
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("nothing to ingest: pass accessions or --from-file")
		}
		for _, acc := range args {
			md, err := client.StudyMetadata(ctx, acc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v\n", acc, err)
				continue
			}
			records = append(records, md)
		}
	}

	summary, err := store.Ingest(ctx, records, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Search the catalog with full-text search and facet filters",
	RunE:  runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or a facet flag")
	}

	results, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("%-14s  %-50s  %-14s  %s\n", "Accession", "Title", "Collection", "Organism")
	fmt.Println(strings.Repeat("-", 95))
	for _, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Printf("%-14s  %-50s  %-14s  %s\n", r.Accession, title, r.Collection, r.Organism)
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

// --- facets subcommand ---

var catalogFacetsCmd = &cobra.Command{
	Use:   "facets <facet>",
	Short: "Show distinct values of a faceted field with study counts",
	Long: `Facets lists the distinct values of one faceted field (collection,
case_study, regulatory_question, flow_step, organism) with the number of
studies carrying each value, most frequent first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogFacets,
}

func runCatalogFacets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Facets(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(counts)
	}

	for _, fc := range counts {
		fmt.Printf("%6d  %s\n", fc.Count, fc.Value)
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to export.yaml or
export.json in the catalog directory. Supports the same filter flags as
query for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd, cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.yaml")
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command, cfg types.Config) types.CatalogConfig {
	if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
		cfg.Catalog.CatalogDir = dir
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.Catalog.MaxResults = maxResults
	}
	return cfg.Catalog
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	collection, _ := cmd.Flags().GetString("collection")
	caseStudy, _ := cmd.Flags().GetString("case-study")
	regQuestion, _ := cmd.Flags().GetString("regulatory-question")
	flowStep, _ := cmd.Flags().GetString("flow-step")
	organism, _ := cmd.Flags().GetString("organism")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:              queryText,
		Collection:         collection,
		CaseStudy:          caseStudy,
		RegulatoryQuestion: regQuestion,
		FlowStep:           flowStep,
		Organism:           organism,
		MaxResults:         limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "", "catalog directory (default: configured or ./catalog)")
	catalogCmd.PersistentFlags().Int("max-results", 0, "maximum number of query results")

	// Ingest flags.
	catalogIngestCmd.Flags().String("from-file", "", "ingest from a saved result file")

	// Query flags.
	for _, c := range []*cobra.Command{catalogQueryCmd, catalogExportCmd} {
		c.Flags().String("query", "", "full-text search query")
		c.Flags().String("collection", "", "filter by collection")
		c.Flags().String("case-study", "", "filter by case study")
		c.Flags().String("regulatory-question", "", "filter by regulatory question")
		c.Flags().String("flow-step", "", "filter by flow step")
		c.Flags().String("organism", "", "filter by organism")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")
	catalogFacetsCmd.Flags().Bool("json", false, "output counts as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogFacetsCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
