// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aop

import (
	"context"
	"fmt"
	"strings"
)

// parkinsonNetworkQuery pulls the Parkinson's disease pathway network:
// every key event relationship reachable from the three molecular
// initiating events of the case study.
const parkinsonNetworkQuery = `
SELECT DISTINCT ?aop ?aop_title ?MIEtitle ?MIE ?KE_downstream ?KE_downstream_title
       ?KER ?ao ?AOtitle ?KE_upstream ?KE_upstream_title
WHERE {
  VALUES ?MIE { aop.events:388 aop.events:2039 aop.events:2036  }
    ?aop a aopo:AdverseOutcomePathway ;
         dc:title ?aop_title ;
         aopo:has_adverse_outcome ?ao ;
         aopo:has_molecular_initiating_event ?MIE .

    ?MIE dc:title ?MIEtitle .

      ?aop aopo:has_key_event_relationship ?KER .
      ?KER a aopo:KeyEventRelationship ;
           aopo:has_upstream_key_event ?KE_upstream ;
           aopo:has_downstream_key_event ?KE_downstream .

      ?KE_upstream dc:title ?KE_upstream_title .
      ?KE_downstream dc:title ?KE_downstream_title .

    OPTIONAL {
      ?ao rdfs:label ?AOtitle .
    }
}
`

// ElementData is the payload of one Cytoscape element. Nodes carry ID and
// Label; edges carry Source, Target, and KERLabel.
type ElementData struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Source   string `json:"source,omitempty"`
	Target   string `json:"target,omitempty"`
	KERLabel string `json:"ker_label,omitempty"`
	IsMIE    bool   `json:"is_mie,omitempty"`
	IsAO     bool   `json:"is_ao,omitempty"`
	InBrain  bool   `json:"in_brain,omitempty"`
}

// Element is one Cytoscape graph element, node or edge.
type Element struct {
	Data ElementData `json:"data"`
}

// FetchNetwork queries the pathway endpoint and assembles the result into
// Cytoscape elements: deduplicated key event nodes first, then one edge
// per key event relationship. A key event seen in several relationships
// keeps a single node; its initiating-event and adverse-outcome flags
// accumulate across rows.
func (c *Client) FetchNetwork(ctx context.Context) ([]Element, error) {
	bindings, err := c.query(ctx, c.networkURL(), parkinsonNetworkQuery)
	if err != nil {
		return nil, fmt.Errorf("fetching pathway network: %w", err)
	}

	var (
		order []string
		nodes = map[string]*ElementData{}
		edges []Element
	)

	for _, row := range bindings {
		upstream := row["KE_upstream"].Value
		downstream := row["KE_downstream"].Value
		if upstream == "" || downstream == "" {
			continue
		}
		mie := row["MIE"].Value
		ao := row["ao"].Value

		up, ok := nodes[upstream]
		if !ok {
			up = &ElementData{
				ID:    upstream,
				Label: row["KE_upstream_title"].Value,
			}
			nodes[upstream] = up
			order = append(order, upstream)
		}
		if upstream == mie {
			up.IsMIE = true
			up.InBrain = true
		}

		down, ok := nodes[downstream]
		if !ok {
			down = &ElementData{
				ID:    downstream,
				Label: row["KE_downstream_title"].Value,
			}
			nodes[downstream] = down
			order = append(order, downstream)
		}
		if ao != "" && downstream == ao {
			down.IsAO = true
		}

		edges = append(edges, Element{Data: ElementData{
			ID:       upstream + "_" + downstream,
			Source:   upstream,
			Target:   downstream,
			KERLabel: kerID(row["KER"].Value),
		}})
	}

	c.Logger.Debug().
		Int("nodes", len(order)).
		Int("edges", len(edges)).
		Msg("assembled pathway network")

	elements := make([]Element, 0, len(order)+len(edges))
	for _, id := range order {
		elements = append(elements, Element{Data: *nodes[id]})
	}
	return append(elements, edges...), nil
}

// kerID extracts the numeric relationship ID from its URI.
func kerID(uri string) string {
	if uri == "" {
		return "Unknown"
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
