package payroll

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRateTable decodes a YAML rate table. Fields absent from the document keep the
// values of DefaultRateTable, so an override may list only what the new law changed.
func LoadRateTable(r io.Reader) (RateTable, error) {
	table := DefaultRateTable()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && err != io.EOF {
		return RateTable{}, &ConfigurationError{Field: "rateTable", Reason: "decode yaml", Err: err}
	}
	if err := table.Validate(); err != nil {
		return RateTable{}, err
	}
	return table, nil
}

// LoadRateTableFile reads LoadRateTable input from path. An empty path yields the default table.
func LoadRateTableFile(path string) (RateTable, error) {
	if path == "" {
		return DefaultRateTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("open rate table: %w", err)
	}
	defer f.Close()
	return LoadRateTable(f)
}
