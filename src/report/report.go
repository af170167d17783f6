package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/username/criptofolio/src/logger"
)

// WriteReport writes the declaration rows to w, ordered by record-type code
// ascending. The sort is stable so records with the same code keep the order
// the classifier emitted them in. A write failure aborts immediately; callers
// must treat whatever was already written as invalid.
func WriteReport(w io.Writer, transactions []Transaction) error {
	ordered := make([]Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci, _ := ordered[i].RecordType()
		cj, _ := ordered[j].RecordType()
		return ci < cj
	})

	for _, t := range ordered {
		if err := WriteTransaction(w, t); err != nil {
			code, _ := t.RecordType()
			return fmt.Errorf("writing record %s: %w", code, err)
		}
	}
	return nil
}

// GenerateReport writes the declaration file at path. On any failure the
// partially written file is not usable as a filing and the error says which
// record could not be produced.
func GenerateReport(transactions []Transaction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteReport(f, transactions); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file %s: %w", path, err)
	}
	if logger.L != nil {
		logger.L.Info("Report generated", "path", path, "records", len(transactions))
	}
	return nil
}
