package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders one worksheet per dataset.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes each dataset to its own sheet named after the dataset title.
// The first sheet is active.
func (e *XLSXExporter) Render(sheets ...Dataset) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create xlsx header style: %w", err)
	}

	for i, data := range sheets {
		if len(data.Headers) == 0 {
			return nil, fmt.Errorf("xlsx sheet %d requires at least one header", i+1)
		}
		name := data.Title
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if len(name) > 31 {
			name = name[:31]
		}

		idx, err := f.NewSheet(name)
		if err != nil {
			return nil, fmt.Errorf("create xlsx sheet %s: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		if err := writeSheet(f, name, data, headerStyle); err != nil {
			return nil, err
		}
	}

	if sheets[0].Title != "" && sheets[0].Title != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, data Dataset, headerStyle int) error {
	for col, header := range data.Headers {
		if err := f.SetCellValue(sheet, cellName(col, 1), header); err != nil {
			return fmt.Errorf("write xlsx header: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(sheet, colName, colName, 18)
	}
	last := cellName(len(data.Headers)-1, 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style xlsx header: %w", err)
	}

	for r, row := range data.Rows {
		for col, value := range data.normalised(row) {
			if err := f.SetCellValue(sheet, cellName(col, r+2), value); err != nil {
				return fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
