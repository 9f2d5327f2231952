// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Bucket
	}{
		{"Organism", BucketBiologicalContext},
		{"cell type", BucketBiologicalContext},
		{"DISEASE STATE", BucketBiologicalContext},
		{"Platform", BucketTechnicalDetail},
		{"library strategy", BucketTechnicalDetail},
		{"Index Adapters", BucketTechnicalDetail},
		{"Author", BucketAuthor},
		{"submitter", BucketAuthor},
		{"Case Study", BucketCaseStudy},
		{"Regulatory Question", BucketRegulatoryQuestion},
		{"flow step", BucketFlowStep},
		{"AttachTo", BucketCollection},
		{"Compound", BucketUnclassified},
		{"Method name", BucketUnclassified},
		{"", BucketUnclassified},
		{"  organism  ", BucketBiologicalContext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyPartialNamesAreUnclassified(t *testing.T) {
	// Matching is exact, not substring: "organism part xyz" is not in the
	// vocabulary even though "organism part" is.
	for _, name := range []string{"organism part xyz", "assay details", "authorship"} {
		if got := Classify(name); got != BucketUnclassified {
			t.Errorf("Classify(%q) = %v, want unclassified", name, got)
		}
	}
}

func TestIsExperimentalFactor(t *testing.T) {
	for _, name := range []string{"Experimental Factor", "variable", "Treatment", "condition", "Time Point"} {
		if !IsExperimentalFactor(name) {
			t.Errorf("IsExperimentalFactor(%q) = false, want true", name)
		}
	}
	if IsExperimentalFactor("Compound") {
		t.Error("Compound should not be an experimental factor")
	}
}

func TestBucketString(t *testing.T) {
	if BucketUnclassified.String() != "unclassified" {
		t.Errorf("zero bucket = %q", BucketUnclassified.String())
	}
	if BucketBiologicalContext.String() != "biological_context" {
		t.Errorf("bio bucket = %q", BucketBiologicalContext.String())
	}
}
