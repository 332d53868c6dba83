package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// readYAML decodes a YAML input file, rejecting unknown keys.
func readYAML(path string, dst any) error {
	if path == "" {
		return NewExitError(ExitCommandError, "input file required (-f)")
	}
	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open input", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("parse %s", path), err)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, fmt.Sprintf("%s must be YYYY-MM-DD", field), err)
	}
	return t, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, WrapExitError(ExitCommandError, fmt.Sprintf("%s must be a number", field), err)
	}
	return d, nil
}
