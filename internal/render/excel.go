package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelSheet renders the AI response into a workbook whose first cell holds
// the response text verbatim.
type ExcelSheet struct{}

func (ExcelSheet) Extension() string { return ".xlsx" }
func (ExcelSheet) MIME() string      { return MIMEExcel }

func (ExcelSheet) Render(purpose, aiText, destDir, basename string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(destDir, basename+".xlsx")

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if err := wb.SetCellValue(sheet, "A1", aiText); err != nil {
		return "", err
	}

	// SaveAs rejects filenames without a recognized workbook extension, so
	// the temp name must keep the .xlsx suffix.
	tmp := fmt.Sprintf("%s.tmp-%d.xlsx", target, time.Now().UTC().UnixNano())
	if err := wb.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return target, nil
}
