// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata turns a raw registry document into the two structured
// views the catalog serves: the flattened StudyMetadata record and the
// fixed display-module bundle. The package is pure tree traversal; it does
// no I/O and holds no state across calls.
package metadata

import "strings"

// Bucket is the semantic category of an attribute name.
type Bucket int

const (
	// BucketUnclassified is the catch-all for names outside every
	// vocabulary. Unclassified attributes still appear in the flat
	// attribute list; nothing is silently dropped.
	BucketUnclassified Bucket = iota
	BucketBiologicalContext
	BucketTechnicalDetail
	BucketAuthor
	BucketCaseStudy
	BucketRegulatoryQuestion
	BucketFlowStep
	BucketCollection
)

func (b Bucket) String() string {
	switch b {
	case BucketBiologicalContext:
		return "biological_context"
	case BucketTechnicalDetail:
		return "technical_detail"
	case BucketAuthor:
		return "author"
	case BucketCaseStudy:
		return "case_study"
	case BucketRegulatoryQuestion:
		return "regulatory_question"
	case BucketFlowStep:
		return "flow_step"
	case BucketCollection:
		return "collection"
	default:
		return "unclassified"
	}
}

// vocabulary maps lower-cased attribute names to their bucket. Adding a
// term is a data change here, not a logic change in the extractor.
var vocabulary = map[string]Bucket{
	// Biological context.
	"organism":      BucketBiologicalContext,
	"species":       BucketBiologicalContext,
	"organism part": BucketBiologicalContext,
	"organ":         BucketBiologicalContext,
	"cell type":     BucketBiologicalContext,
	"tissue":        BucketBiologicalContext,
	"disease":       BucketBiologicalContext,
	"disease state": BucketBiologicalContext,
	"sample type":   BucketBiologicalContext,

	// Technical details.
	"platform":        BucketTechnicalDetail,
	"instrument":      BucketTechnicalDetail,
	"assay":           BucketTechnicalDetail,
	"assay type":      BucketTechnicalDetail,
	"library strategy": BucketTechnicalDetail,
	"library source":  BucketTechnicalDetail,
	"data type":       BucketTechnicalDetail,
	"sequencing mode": BucketTechnicalDetail,
	"sequencing date": BucketTechnicalDetail,
	"index adapters":  BucketTechnicalDetail,
	"pipeline":        BucketTechnicalDetail,

	// Authors named directly as attributes.
	"author":    BucketAuthor,
	"authors":   BucketAuthor,
	"contact":   BucketAuthor,
	"submitter": BucketAuthor,

	// Regulatory-science facets.
	"case study":          BucketCaseStudy,
	"regulatory question": BucketRegulatoryQuestion,
	"flow step":           BucketFlowStep,

	// The sub-registry a study is attached to.
	"attachto": BucketCollection,
}

// Classify maps an attribute name to its bucket. Matching is
// case-insensitive and exact; unknown names classify as unclassified.
func Classify(name string) Bucket {
	return vocabulary[strings.ToLower(strings.TrimSpace(name))]
}

// factorNames are the attribute names collected into the experimental
// design factor list during the tree walk.
var factorNames = map[string]bool{
	"experimental factor": true,
	"variable":            true,
	"treatment":           true,
	"condition":           true,
	"time point":          true,
}

// IsExperimentalFactor reports whether the attribute name belongs to the
// experimental-design vocabulary.
func IsExperimentalFactor(name string) bool {
	return factorNames[strings.ToLower(strings.TrimSpace(name))]
}
