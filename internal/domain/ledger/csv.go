package ledger

import (
	"encoding/csv"
	"io"

	appErrors "github.com/turtacn/ChemReg-Ledger/pkg/errors"
	"github.com/turtacn/ChemReg-Ledger/pkg/types/chem"
)

// utf8BOM makes Korean text open correctly in Excel.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV streams the full ledger (two header rows plus one row per
// inventory entry) as UTF-8 CSV with a byte-order mark.
func WriteCSV(w io.Writer, rows []chem.InventoryRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeExportRenderFailed, "writing ledger header")
	}

	cw := csv.NewWriter(w)
	for _, header := range HeaderRows() {
		if err := cw.Write(header); err != nil {
			return appErrors.Wrap(err, appErrors.ErrCodeExportRenderFailed, "writing ledger header")
		}
	}
	for i := range rows {
		if err := cw.Write(Row(&rows[i])); err != nil {
			return appErrors.Wrap(err, appErrors.ErrCodeExportRenderFailed, "writing ledger row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeExportRenderFailed, "flushing ledger")
	}
	return nil
}
