package ascent

import (
	"bufio"
	"bytes"
	_ "embed" // Reference atmosphere table.
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const atmosphereColumns = 10

// Column indexes of interest in an atmosphere table.
const (
	colAltitude        = 0
	colTemperature     = 1
	colLogDensity      = 8
	colMolecularWeight = 9
)

//go:embed data/earth-t1000.tbl
var earthTable []byte

var (
	earthRowsOnce sync.Once
	earthRows     []AtmosphereRow
	earthRowsErr  error
)

// EarthAtmosphereRows returns the rows of the embedded Earth reference atmosphere
// (0 to 1000 km, exospheric temperature of 1000 K). The returned slice is a copy.
func EarthAtmosphereRows() ([]AtmosphereRow, error) {
	earthRowsOnce.Do(func() {
		earthRows, earthRowsErr = ParseAtmosphereTable(bytes.NewReader(earthTable))
	})
	if earthRowsErr != nil {
		return nil, earthRowsErr
	}
	rows := make([]AtmosphereRow, len(earthRows))
	copy(rows, earthRows)
	return rows, nil
}

// LoadAtmosphereTable parses the atmosphere table stored at path.
func LoadAtmosphereTable(path string) ([]AtmosphereRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ParseAtmosphereTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ParseAtmosphereTable reads whitespace or pipe delimited rows of ten numeric columns:
// altitude (km), temperature (K), six species densities, log10 of the total number density and
// the mean molecular weight. Lines starting with # and rows of any other width are skipped.
func ParseAtmosphereTable(r io.Reader) ([]AtmosphereRow, error) {
	var rows []AtmosphereRow
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == '|' || c == ' ' || c == '\t'
		})
		if len(fields) != atmosphereColumns {
			continue
		}
		var vals [atmosphereColumns]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", lineNo, i, err)
			}
			vals[i] = v
		}
		rows = append(rows, AtmosphereRow{
			Altitude:        vals[colAltitude],
			Temperature:     vals[colTemperature],
			LogDensity:      vals[colLogDensity],
			MolecularWeight: vals[colMolecularWeight],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
