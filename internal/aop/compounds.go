// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aop

import (
	"context"
	"fmt"
)

// Case-study compound list entities in the compound wiki.
const (
	// DefaultCompoundsQID is the thyroid case study compound list.
	DefaultCompoundsQID = "Q2059"

	// ParkinsonCompoundsQID is the Parkinson's disease compound list.
	ParkinsonCompoundsQID = "Q5050"
)

const compoundsQueryFmt = `
PREFIX wd: <https://compoundcloud.wikibase.cloud/entity/>
PREFIX wdt: <https://compoundcloud.wikibase.cloud/prop/direct/>

SELECT DISTINCT (substr(str(?cmp), 45) as ?ID) (?cmpLabel AS ?Term)
    ?SMILES (?cmp AS ?ref)
WHERE {
    { ?parent wdt:P21 wd:%[1]s ; wdt:P29 ?cmp . } UNION { ?cmp wdt:P21 wd:%[1]s . }
?cmp wdt:P1 ?type ; rdfs:label ?cmpLabel . FILTER(lang(?cmpLabel) = 'en')
?type rdfs:label ?typeLabel . FILTER(lang(?typeLabel) = 'en')
OPTIONAL { ?cmp wdt:P7 ?chiralSMILES }
OPTIONAL { ?cmp wdt:P12 ?nonchiralSMILES }
BIND (COALESCE(IF(BOUND(?chiralSMILES), ?chiralSMILES, 1/0), IF(BOUND(?nonchiralSMILES), ?nonchiralSMILES, 1/0),"") AS ?SMILES)
SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
}
`

// Compound is one entry from a case-study compound list.
type Compound struct {
	ID     string `json:"ID" yaml:"id"`
	Term   string `json:"Term" yaml:"term"`
	SMILES string `json:"SMILES" yaml:"smiles"`
}

// Compounds fetches the compound list rooted at the given wiki entity.
// An empty qid falls back to DefaultCompoundsQID.
func (c *Client) Compounds(ctx context.Context, qid string) ([]Compound, error) {
	if qid == "" {
		qid = DefaultCompoundsQID
	}

	bindings, err := c.query(ctx, c.compoundURL(), fmt.Sprintf(compoundsQueryFmt, qid))
	if err != nil {
		return nil, fmt.Errorf("fetching compounds for %s: %w", qid, err)
	}

	compounds := make([]Compound, 0, len(bindings))
	for _, row := range bindings {
		compounds = append(compounds, Compound{
			ID:     row["ID"].Value,
			Term:   row["Term"].Value,
			SMILES: row["SMILES"].Value,
		})
	}

	c.Logger.Debug().Str("qid", qid).Int("compounds", len(compounds)).Msg("fetched compound list")
	return compounds, nil
}
