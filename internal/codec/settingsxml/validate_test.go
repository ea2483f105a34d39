package settingsxml

import (
	"errors"
	"strings"
	"testing"

	"physiconf/pkg/domain"
)

func validDocument(t *testing.T) []byte {
	t.Helper()
	c, m := newTestCodec(t)
	if _, err := m.AddSubstrate("oxygen"); err != nil {
		t.Fatalf("add substrate: %v", err)
	}
	if _, err := m.AddCellType("tumor", ""); err != nil {
		t.Fatalf("add cell type: %v", err)
	}
	out, err := c.Serialize(m)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return out
}

func TestValidateStructureAcceptsSerializedDocument(t *testing.T) {
	if err := validateStructure(validDocument(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStructureFailures(t *testing.T) {
	doc := string(validDocument(t))
	cases := []struct {
		name string
		data string
		want string
	}{
		{
			name: "malformed",
			data: "<PhysiCell_settings version=\"1.14.0\"><domain>",
			want: "malformed XML",
		},
		{
			name: "wrong root",
			data: strings.ReplaceAll(doc, "PhysiCell_settings", "settings"),
			want: "root element must be",
		},
		{
			name: "missing version",
			data: strings.Replace(doc, ` version="1.14.0"`, "", 1),
			want: "missing the version attribute",
		},
		{
			name: "missing section",
			data: doc[:strings.Index(doc, "<cell_definitions>")] +
				doc[strings.Index(doc, "</cell_definitions>")+len("</cell_definitions>"):],
			want: "missing required section cell_definitions",
		},
		{
			name: "empty",
			data: "",
			want: "no root element",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateStructure([]byte(tc.data))
			var invalid domain.ErrValidation
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestParseRunsStructuralValidationFirst(t *testing.T) {
	c, _ := newTestCodec(t)
	_, err := c.Parse([]byte("<wrong/>"))
	var invalid domain.ErrValidation
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
