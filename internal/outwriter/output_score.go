package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// interpretationJSON is the JSON document for a single score.
type interpretationJSON struct {
	Score int `json:"score"`
	schema.HealthInterpretation
}

// WriteInterpretationResult outputs the band of a score, dispatching based on the output format configured.
func WriteInterpretationResult(score int, interp schema.HealthInterpretation, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, interpretationJSON{Score: score, HealthInterpretation: interp})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"score", "label", "description", "color"}, func(cw *csv.Writer) error {
				return cw.Write([]string{strconv.Itoa(score), interp.Label, interp.Description, string(interp.ColorTag)})
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for a single score")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Health Score: %d/100 %s\n%s\n",
				score, contract.GetColorLabel(interp.Label, interp.ColorTag), interp.Description)
			return err
		}, "Wrote text")
	}
}
