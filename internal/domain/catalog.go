package domain

// Field names a metadata field whose values are checked against an accepted list.
type Field string

const (
	FieldLabName    Field = "LAB_NAME"
	FieldTestType   Field = "TEST_TYPE"
	FieldSampleType Field = "SAMPLE_TYPE"
)

// Metadata columns read from the first data row of every log.
const (
	ColumnLabName    = "CREP_LAB_NAME"
	ColumnTestType   = "CREP_TESTTYPE"
	ColumnSampleType = "CREP_SAMPLETYPE"
	ColumnTestDate   = "CREP_TEST_DATE"
)

// TemplateColumn is one expected metadata column.
type TemplateColumn struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// MnemonicRule describes an accepted measurement channel. A nil bound is unconstrained.
type MnemonicRule struct {
	Unit string   `json:"unit"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// SchemaCatalog is the reference schema logs are validated against. It is
// built once per run and must not be modified afterwards.
type SchemaCatalog struct {
	Template  []TemplateColumn                   `json:"template"`
	Accepted  map[Field]map[string]struct{}      `json:"-"`
	Mnemonics map[string]map[string]MnemonicRule `json:"mnemonics"`
}

// Accepts reports whether value is in the accepted list for field.
func (c *SchemaCatalog) Accepts(field Field, value string) bool {
	if c == nil {
		return false
	}
	_, ok := c.Accepted[field][value]
	return ok
}

// Dictionary returns the mnemonic table for a test type.
func (c *SchemaCatalog) Dictionary(testType string) (map[string]MnemonicRule, bool) {
	if c == nil {
		return nil, false
	}
	dict, ok := c.Mnemonics[testType]
	return dict, ok
}

// LogIdentity holds the identifying metadata of one log.
type LogIdentity struct {
	LabName       string `json:"labName"`
	TestType      string `json:"testType"`
	SampleType    string `json:"sampleType"`
	TestDate      string `json:"testDate"`
	KnownTestType bool   `json:"knownTestType"`
}

// Limits are the schema contract constants shared by validation and splitting.
type Limits struct {
	MetadataColumns    int     `json:"metadataColumns"`
	DataColumnCap      int     `json:"dataColumnCap"`
	DataColumnsSegment int     `json:"dataColumnsSegment"`
	DepthIncrement     float64 `json:"depthIncrement"`
	Extension          string  `json:"extension"`
}

// DefaultLimits returns the reference values.
func DefaultLimits() Limits {
	return Limits{
		MetadataColumns:    7,
		DataColumnCap:      10,
		DataColumnsSegment: 8,
		DepthIncrement:     1e-5,
		Extension:          ".CSV",
	}
}
