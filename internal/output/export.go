package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/tasks"
)

// Export formats accepted by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Export writes the list to w in the given format.
func Export(w io.Writer, list []tasks.Task, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return exportJSON(w, list)
	case FormatCSV:
		return exportCSV(w, list)
	case FormatPDF:
		return exportPDF(w, list, time.Now())
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

func exportJSON(w io.Writer, list []tasks.Task) error {
	if list == nil {
		list = []tasks.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func exportCSV(w io.Writer, list []tasks.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "text", "completed"}); err != nil {
		return err
	}
	for _, t := range list {
		row := []string{strconv.FormatInt(t.ID, 10), t.Text, strconv.FormatBool(t.Completed)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportPDF(w io.Writer, list []tasks.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "To-Do List")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	if len(list) == 0 {
		pdf.MultiCell(0, 7, "No tasks.", "0", "L", false)
	}

	remaining, completed := 0, 0
	for i, t := range list {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
			completed++
		} else {
			remaining++
		}
		line := fmt.Sprintf("%d. %s %s", i+1, box, normalizeText(t.Text))
		pdf.MultiCell(0, 7, tr(line), "0", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d remaining, %d completed", remaining, completed))

	return pdf.Output(w)
}
