package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a header and n rows drawn from g
func WriteCSV(w io.Writer, g *Generator, n int) error {
	if n < 0 {
		return fmt.Errorf("row count must not be negative, got %d", n)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(g.Next().Record()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
