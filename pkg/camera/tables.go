package camera

import(
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadTable parses a plain numeric table: one row per line, values
// separated by whitespace and/or commas. Blank lines and lines starting
// with '#' are skipped. Every row must have `nCols` values.
func ReadTable(filename string, nCols int) (*mat.Dense, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	vals := []float64{}
	nRows := 0
	lineNum := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == ';'
		})
		if len(fields) != nCols {
			return nil, fmt.Errorf("line %d: wanted %d columns, found %d", lineNum, nCols, len(fields))
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNum, err)
			}
			vals = append(vals, v)
		}
		nRows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read '%s': %v", filename, err)
	}

	if nRows == 0 {
		return nil, fmt.Errorf("no rows")
	}

	return mat.NewDense(nRows, nCols, vals), nil
}
