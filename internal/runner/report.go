package runner

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Boer2333/mindnetwork/internal/claim"
)

// WriteOutcomes persists the run to a delimited table, one row per wallet in
// completion order, overwriting any previous file. Claiming runs carry a
// status column; checking runs keep the historical two-column layout.
func WriteOutcomes(path string, outcomes []Outcome, withStatus bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"address", "amount"}
	if withStatus {
		header = append(header, "status")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, o := range outcomes {
		row := []string{o.Address, o.Amount}
		if withStatus {
			row = append(row, string(o.Status))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Summary renders the end-of-run block.
func (st Stats) Summary() string {
	return fmt.Sprintf("=== SUMMARY ===\nsuccess : %d\nfailed  : %d\nclaimable: %s\n===============",
		st.Success, st.Failed, claim.FormatAmount(st.TotalClaimable))
}
