// Package export writes deduplicated contacts to downstream systems: a
// spreadsheet and Salesforce Leads.
package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// SheetName is the worksheet holding contacts.
const SheetName = "Contacts"

var sheetHeader = []string{"Name", "Email", "Company", "Title"}

// XLSX encodes contacts as a workbook with a header row and one row per
// contact. Null fields become empty cells.
func XLSX(contacts []model.Contact) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, sheetHeader)
	for _, c := range contacts {
		addRow(sheet, []string{
			model.Deref(c.Name, ""),
			model.Deref(c.Email, ""),
			model.Deref(c.Company, ""),
			model.Deref(c.Title, ""),
		})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: encode workbook")
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes the contacts workbook to path on fs.
func WriteXLSX(fs afero.Fs, path string, contacts []model.Contact) error {
	data, err := XLSX(contacts)
	if err != nil {
		return err
	}
	return artifact.WriteFile(fs, path, data)
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
