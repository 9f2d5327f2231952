// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/phuslu/log"

	"github.com/pdiddy/study-catalog/pkg/types"
)

// ModuleLogger receives debug trace records from the module extractor.
// Defaults to a discard writer so library callers stay silent; the CLI
// points it at the process logger.
var ModuleLogger = log.Logger{Level: log.InfoLevel, Writer: &log.IOWriter{Writer: io.Discard}}

// generalInfoFields is the allow-list of section attribute names captured
// into the general-info module, each with its qualifier list.
var generalInfoFields = map[string]bool{
	"title":                   true,
	"releasedate":             true,
	"description":             true,
	"organism":                true,
	"license":                 true,
	"bioassay":                true,
	"organ":                   true,
	"tissue":                  true,
	"adverse outcome pathway": true,
	"aop event":               true,
	"case study":              true,
	"flow step":               true,
	"regulatory questions":    true,
}

// ToModules organizes a raw registry document into the seven display
// modules. It shares the organization resolver with Extract but runs its
// own harvesting pass keyed purely on subsection type. Like Extract it
// never raises: failures produce a bundle with Error set.
func ToModules(doc *types.RawDocument) (bundle types.ModuleBundle) {
	defer func() {
		if r := recover(); r != nil {
			bundle = types.ModuleBundle{Error: fmt.Sprintf("module extraction failed: %v", r)}
		}
	}()

	bundle = types.ModuleBundle{
		AuthorInfo: []types.ModuleAuthor{},
		ChemicalInfo: types.ChemicalInfo{
			TestChemicals:    []types.AttributeMap{},
			PositiveControls: []types.AttributeMap{},
		},
		BiologicalModelInfo: types.BiologicalModelInfo{CellLines: []types.AttributeMap{}},
		ExposureInfo:        []types.AttributeMap{},
		EndpointReadoutInfo: types.AttributeMap{},
		Files:               []types.ModuleFile{},
	}
	if doc == nil {
		bundle.Error = "malformed input: empty document"
		return bundle
	}

	orgs := BuildOrgLookup(doc.Section)

	bundle.GeneralInfo = extractGeneralInfo(doc)

	if doc.Section != nil {
		walkModules(&bundle, doc.Section, orgs)
		collectModuleFiles(&bundle, doc.Section)
	}

	ModuleLogger.Debug().
		Str("accession", doc.Accno).
		Int("authors", len(bundle.AuthorInfo)).
		Int("test_chemicals", len(bundle.ChemicalInfo.TestChemicals)).
		Int("positive_controls", len(bundle.ChemicalInfo.PositiveControls)).
		Int("cell_lines", len(bundle.BiologicalModelInfo.CellLines)).
		Int("exposure_entries", len(bundle.ExposureInfo)).
		Int("files", len(bundle.Files)).
		Msg("extracted display modules")

	return bundle
}

func extractGeneralInfo(doc *types.RawDocument) types.GeneralInfo {
	info := types.GeneralInfo{
		Accession:   orNA(doc.Accno),
		Title:       orNA(doc.Title),
		ReleaseDate: orNA(doc.ReleaseDate),
		Type:        orNA(doc.Type),
		Fields:      map[string]types.FieldValue{},
	}

	if doc.Section == nil || doc.Section.IsList() {
		return info
	}

	for _, attr := range doc.Section.Attributes {
		if !generalInfoFields[strings.ToLower(attr.Name)] {
			continue
		}
		info.Fields[attr.Name] = types.FieldValue{Value: attr.Value, ValQual: attr.ValQual}
	}

	for _, link := range doc.Section.Links {
		info.Links = append(info.Links, types.GeneralLink{
			URL:         link.URL,
			Description: link.LinkDescription(),
		})
	}

	return info
}

// walkModules routes subsections into modules by type. A match never stops
// the descent: matched subsections still have their own subsections walked,
// and module contents keep depth-first source order.
func walkModules(bundle *types.ModuleBundle, sec *types.RawSection, orgs map[string]types.OrganizationRecord) {
	if sec.IsList() {
		for i := range sec.Nodes {
			walkModules(bundle, &sec.Nodes[i], orgs)
		}
		return
	}
	for i := range sec.Subsections {
		routeSubsection(bundle, &sec.Subsections[i], orgs)
	}
}

func routeSubsection(bundle *types.ModuleBundle, sec *types.RawSection, orgs map[string]types.OrganizationRecord) {
	if sec.IsList() {
		for i := range sec.Nodes {
			routeSubsection(bundle, &sec.Nodes[i], orgs)
		}
		return
	}

	switch strings.ToLower(sec.Type) {
	case "author", "contact", "person":
		if author := moduleAuthor(sec, orgs); len(author) > 0 {
			bundle.AuthorInfo = append(bundle.AuthorInfo, author)
		}
	case "chemicals":
		if m := attributeMap(sec); len(m) > 0 {
			bundle.ChemicalInfo.TestChemicals = append(bundle.ChemicalInfo.TestChemicals, m)
		}
	case "positive controls":
		if m := attributeMap(sec); len(m) > 0 {
			bundle.ChemicalInfo.PositiveControls = append(bundle.ChemicalInfo.PositiveControls, m)
		}
	case "cell lines":
		if m := attributeMap(sec); len(m) > 0 {
			bundle.BiologicalModelInfo.CellLines = append(bundle.BiologicalModelInfo.CellLines, m)
		}
	case "experimental design":
		// One entry per matching subsection; never merged.
		if m := attributeMap(sec); len(m) > 0 {
			bundle.ExposureInfo = append(bundle.ExposureInfo, m)
		}
	case "assay details":
		// Merged across matches, later keys overwriting earlier ones.
		for name, value := range attributeMap(sec) {
			bundle.EndpointReadoutInfo[name] = value
		}
	case "funding":
		if m := attributeMap(sec); len(m) > 0 {
			bundle.GeneralInfo.Funding = append(bundle.GeneralInfo.Funding, m)
		}
	}

	for i := range sec.Subsections {
		routeSubsection(bundle, &sec.Subsections[i], orgs)
	}
}

// moduleAuthor copies an author subsection's attributes by canonical name.
// Reference-flagged affiliation attributes become the resolved organization
// name instead of being copied through; the last reference wins.
func moduleAuthor(sec *types.RawSection, orgs map[string]types.OrganizationRecord) types.ModuleAuthor {
	if len(sec.Attributes) == 0 {
		return nil
	}

	author := types.ModuleAuthor{}
	var affiliationRef string
	for _, attr := range sec.Attributes {
		if attr.Reference && strings.ToLower(attr.Name) == "affiliation" {
			affiliationRef = attr.Value
			continue
		}
		author[attr.Name] = attr.Value
	}

	if org, ok := orgs[affiliationRef]; affiliationRef != "" && ok {
		author[types.AffiliationResolvedKey] = org.Name
	}
	return author
}

func attributeMap(sec *types.RawSection) types.AttributeMap {
	m := types.AttributeMap{}
	for _, attr := range sec.Attributes {
		m[attr.Name] = attr.Value
	}
	return m
}

// collectModuleFiles is the independent file pass over the same tree.
func collectModuleFiles(bundle *types.ModuleBundle, sec *types.RawSection) {
	if sec.IsList() {
		for i := range sec.Nodes {
			collectModuleFiles(bundle, &sec.Nodes[i])
		}
		return
	}

	for _, f := range sec.Files {
		bundle.Files = append(bundle.Files, types.ModuleFile{
			Name: f.Name,
			Size: f.Size,
			Type: f.Type,
			Path: f.Path,
		})
	}

	for i := range sec.Subsections {
		collectModuleFiles(bundle, &sec.Subsections[i])
	}
}
