// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-catalog/internal/aop"
)

var aopCmd = &cobra.Command{
	Use:   "aop",
	Short: "Query the pathway and compound collaborators",
	Long: `AOP queries the adverse outcome pathway collaborators: the AOP-Wiki
SPARQL endpoint for key event networks and the compound wiki for
case-study compound lists.`,
}

var aopNetworkCmd = &cobra.Command{
	Use:   "network",
	Short: "Fetch the pathway network as Cytoscape elements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := aop.NewClient(cfg.AOP, logger)
		elements, err := client.FetchNetwork(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(elements)
	},
}

var aopCompoundsCmd = &cobra.Command{
	Use:   "compounds [entity-id]",
	Short: "Fetch a case-study compound list",
	Long: `Compounds fetches the compound list rooted at a compound wiki entity.
Without an argument the default case-study list is used; pass an entity
ID like Q5050 for another list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		qid := ""
		if len(args) == 1 {
			qid = args[0]
		}

		client := aop.NewClient(cfg.AOP, logger)
		compounds, err := client.Compounds(cmd.Context(), qid)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return printJSON(compounds)
		}
		for _, c := range compounds {
			fmt.Printf("%-8s  %-40s  %s\n", c.ID, c.Term, c.SMILES)
		}
		return nil
	},
}

func init() {
	aopCompoundsCmd.Flags().Bool("json", false, "output as JSON")

	aopCmd.AddCommand(aopNetworkCmd)
	aopCmd.AddCommand(aopCompoundsCmd)

	rootCmd.AddCommand(aopCmd)
}
