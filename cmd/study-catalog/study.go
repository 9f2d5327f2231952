// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/study-catalog/internal/registry"
	"github.com/pdiddy/study-catalog/pkg/types"
)

var studyCmd = &cobra.Command{
	Use:   "study <accession>",
	Short: "Fetch one study and normalize its metadata",
	Long: `Study fetches a submission from the registry by accession and prints its
normalized metadata record: classified attributes, resolved authors,
files, links, and protocols.

With --modules the study is organized into display modules (general info,
authors, chemicals, biological model, exposure, endpoint readout, files)
instead of the flat record. With --raw the registry document is printed
untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudy,
}

func runStudy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := registry.NewClient(cfg.Registry, logger)
	ctx := cmd.Context()

	modules, _ := cmd.Flags().GetBool("modules")
	raw, _ := cmd.Flags().GetBool("raw")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	switch {
	case raw:
		doc, err := client.GetStudy(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(doc)
	case modules:
		bundle, err := client.StudyModules(ctx, args[0])
		if err != nil {
			return err
		}
		if bundle.Error != "" {
			return fmt.Errorf("organizing %s: %s", args[0], bundle.Error)
		}
		return printRecord(bundle, jsonOutput)
	default:
		md, err := client.StudyMetadata(ctx, args[0])
		if err != nil {
			return err
		}
		if md.HasError() {
			return fmt.Errorf("normalizing %s: %s", args[0], md.Error)
		}
		if jsonOutput {
			return printJSON(md)
		}
		printMetadataSummary(md)
		return nil
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(v any, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func printMetadataSummary(md types.StudyMetadata) {
	fmt.Printf("%s  %s\n", md.Accession, md.Title)
	if md.URL != "" {
		fmt.Printf("  %s\n", md.URL)
	}
	if md.Collection != "" {
		fmt.Printf("  collection: %s\n", md.Collection)
	}
	if md.ReleaseDate != types.NotAvailable {
		fmt.Printf("  released:   %s\n", md.ReleaseDate)
	}
	if len(md.Authors) > 0 {
		fmt.Printf("  authors:    %s\n", strings.Join(md.Authors, ", "))
	}
	for name, value := range md.BiologicalContext {
		fmt.Printf("  bio/%s: %s\n", name, value)
	}
	for name, value := range md.TechnicalDetails {
		fmt.Printf("  tech/%s: %s\n", name, value)
	}
	fmt.Printf("  files: %d, links: %d, protocols: %d\n",
		len(md.Files), len(md.Links), len(md.Protocols))
}

func init() {
	studyCmd.Flags().Bool("modules", false, "organize into display modules instead of the flat record")
	studyCmd.Flags().Bool("raw", false, "print the raw registry document")
	studyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(studyCmd)
}
