package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// PrintFeatures writes a registry listing using the configured output format.
func PrintFeatures(rows []schema.FeatureRow, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteFeatures(w, rows, cfg) })
}

// WriteFeatures writes a registry listing to w.
func WriteFeatures(w io.Writer, rows []schema.FeatureRow, cfg *contract.Config) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, rows)
	case schema.YAMLOut:
		return writeYAML(w, rows)
	case schema.CSVOut:
		records := make([][]string, len(rows))
		for i, r := range rows {
			records[i] = []string{
				r.Name, string(r.Unit), string(r.Family), contract.GetPlainKindLabel(r.Kind),
				strconv.Itoa(r.TimeWindow), strconv.FormatBool(r.Enabled),
			}
		}
		return writeCSVWithHeader(w, []string{"name", "unit", "family", "kind", "time_window", "enabled"}, records)
	case schema.TextOut:
		records := make([][]string, len(rows))
		enabled := 0
		for i, r := range rows {
			mark := ""
			if r.Enabled {
				mark = "yes"
				enabled++
			}
			records[i] = []string{r.Name, string(r.Unit), string(r.Family), kindLabel(r.Kind, cfg), strconv.Itoa(r.TimeWindow), mark}
		}
		if err := writeTable(w, []string{"Name", "Unit", "Family", "Kind", "Window", "Enabled"}, records); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d features (%d enabled)\n", len(rows), enabled)
		return err
	default:
		return unsupported(cfg, "features")
	}
}

// PrintClassification writes a classification using the configured output format.
func PrintClassification(c schema.Classification, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteClassification(w, c, cfg) })
}

// WriteClassification writes a classification to w. Label features appear
// under both the numeric and label kinds, matching how they are stored.
func WriteClassification(w io.Writer, c schema.Classification, cfg *contract.Config) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, c)
	case schema.YAMLOut:
		return writeYAML(w, c)
	}

	kinds := []struct {
		kind  schema.FeatureKind
		names []string
	}{
		{schema.CategoricalKind, c.Categorical},
		{schema.NumericKind, c.Numeric},
		{schema.LabelKind, c.Label},
	}
	switch outputMode(cfg) {
	case schema.CSVOut:
		var records [][]string
		for _, k := range kinds {
			for _, name := range k.names {
				records = append(records, []string{name, contract.GetPlainKindLabel(k.kind)})
			}
		}
		return writeCSVWithHeader(w, []string{"name", "kind"}, records)
	case schema.TextOut:
		var records [][]string
		for _, k := range kinds {
			for _, name := range k.names {
				records = append(records, []string{name, kindLabel(k.kind, cfg)})
			}
		}
		if err := writeTable(w, []string{"Feature", "Kind"}, records); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d categorical, %d numeric, %d label\n", len(c.Categorical), len(c.Numeric), len(c.Label))
		return err
	default:
		return unsupported(cfg, "classification")
	}
}

// PrintDecodedNames writes name decoder results using the configured output format.
func PrintDecodedNames(rows []schema.DecodedName, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteDecodedNames(w, rows, cfg) })
}

// WriteDecodedNames writes name decoder results to w.
func WriteDecodedNames(w io.Writer, rows []schema.DecodedName, cfg *contract.Config) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, rows)
	case schema.YAMLOut:
		return writeYAML(w, rows)
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{r.Name, r.BaseName, strconv.Itoa(r.TimeWindow), strconv.FormatBool(r.Encoded), strconv.FormatBool(r.Registered)}
	}
	switch outputMode(cfg) {
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"name", "base_name", "time_window", "encoded", "registered"}, records)
	case schema.TextOut:
		return writeTable(w, []string{"Name", "Base", "Window", "Encoded", "Registered"}, records)
	default:
		return unsupported(cfg, "decoded names")
	}
}
