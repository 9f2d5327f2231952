// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"strings"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// BuildOrgLookup scans the whole section tree and returns a map from
// organization accno to its contact record. It runs as a separate phase
// before any extraction pass, so author sections can reference
// organizations defined anywhere in the tree, including subtrees visited
// later in document order. The returned map is read-only afterwards.
func BuildOrgLookup(sec *types.RawSection) map[string]types.OrganizationRecord {
	lookup := make(map[string]types.OrganizationRecord)
	collectOrgs(sec, lookup)
	return lookup
}

func collectOrgs(sec *types.RawSection, lookup map[string]types.OrganizationRecord) {
	if sec == nil {
		return
	}
	if sec.IsList() {
		for i := range sec.Nodes {
			collectOrgs(&sec.Nodes[i], lookup)
		}
		return
	}

	if isOrganizationType(sec.Type) && sec.Accno != "" {
		var rec types.OrganizationRecord
		found := false
		// Only the fixed contact allow-list is copied; other attributes
		// on an organization section are ignored.
		for _, attr := range sec.Attributes {
			switch strings.ToLower(attr.Name) {
			case "name":
				rec.Name = attr.Value
			case "organization":
				rec.Organization = attr.Value
			case "email":
				rec.Email = attr.Value
			case "address":
				rec.Address = attr.Value
			case "department":
				rec.Department = attr.Value
			case "affiliation":
				rec.Affiliation = attr.Value
			default:
				continue
			}
			found = true
		}
		if found {
			lookup[sec.Accno] = rec
		}
	}

	for i := range sec.Subsections {
		collectOrgs(&sec.Subsections[i], lookup)
	}
}

// isOrganizationType accepts both spellings used in the wild.
func isOrganizationType(sectionType string) bool {
	t := strings.ToLower(sectionType)
	return t == "organization" || t == "organisation"
}
