package settingsxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"physiconf/pkg/domain"
)

// requiredSections must appear as direct children of the document root.
var requiredSections = []string{"domain", "microenvironment_setup", "cell_definitions"}

// validateStructure performs the cheap schema-level pass before the full
// decode: well-formed XML, the expected root element carrying a version
// attribute, and the required top-level sections.
func validateStructure(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	rootSeen := false
	seen := make(map[string]bool, len(requiredSections))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.ErrValidation{Reason: "malformed XML: " + err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				rootSeen = true
				if t.Name.Local != rootElement {
					return domain.ErrValidation{Reason: "root element must be " + rootElement + ", got " + t.Name.Local}
				}
				version := ""
				for _, a := range t.Attr {
					if a.Name.Local == versionAttr {
						version = a.Value
					}
				}
				if version == "" {
					return domain.ErrValidation{Reason: "root element is missing the " + versionAttr + " attribute"}
				}
			} else if depth == 1 {
				seen[t.Name.Local] = true
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if !rootSeen {
		return domain.ErrValidation{Reason: "document has no root element"}
	}
	for _, name := range requiredSections {
		if !seen[name] {
			return domain.ErrValidation{Reason: "missing required section " + name}
		}
	}
	return nil
}
