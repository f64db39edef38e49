/*package io reads the configuration files and data tables used by the
gospline command and writes sampled curves back out as tables.
*/
package io

import (
	"bufio"
	"fmt"
	"os"

	"github.com/phil-mansfield/table"
)

// ReadCurveData reads one column of keys and one column of values from a
// whitespace-separated table.
func ReadCurveData(file string, keyCol, valueCol int) (xs, ys []float64, err error) {
	cols, err := table.ReadTable(file, []int{keyCol, valueCol}, nil)
	if err != nil {
		return nil, nil, err
	}

	xs, ys = cols[0], cols[1]
	if len(xs) < 2 {
		return nil, nil, fmt.Errorf(
			"'%s' contains %d rows, but a curve needs at least 2.",
			file, len(xs),
		)
	}
	return xs, ys, nil
}

// WriteCurveTable writes keys, values and derivatives as three columns
// which ReadCurveData can read back.
func WriteCurveTable(file string, keys, values, derivs []float64) error {
	if len(keys) != len(values) || len(keys) != len(derivs) {
		return fmt.Errorf(
			"Given %d keys, %d values and %d derivatives.",
			len(keys), len(values), len(derivs),
		)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# Column 0: key")
	fmt.Fprintln(w, "# Column 1: value")
	fmt.Fprintln(w, "# Column 2: first derivative")
	for i := range keys {
		fmt.Fprintf(w, "%.17g %.17g %.17g\n", keys[i], values[i], derivs[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
