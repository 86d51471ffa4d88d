package output_test

import (
	"bytes"
	"strings"
	"testing"

	"todo/internal/output"
	"todo/internal/tasks"
)

var sample = []tasks.Task{
	{ID: 1, Text: "Buy milk"},
	{ID: 2, Text: "Call\nmom", Completed: true},
	{ID: 3, Text: "Pay rent, \"soon\""},
}

func TestFormatList(t *testing.T) {
	var buf bytes.Buffer
	output.FormatList(&buf, sample, false)

	want := "   1  [ ] Buy milk\n" +
		"   2  [x] Call mom\n" +
		"   3  [ ] Pay rent, \"soon\"\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatList_PendingOnlyKeepsNumbers(t *testing.T) {
	var buf bytes.Buffer
	output.FormatList(&buf, sample, true)

	want := "   1  [ ] Buy milk\n" +
		"   3  [ ] Pay rent, \"soon\"\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSummary(&buf, 2, 1)
	if buf.String() != "\n2 remaining, 1 completed\n" {
		t.Errorf("unexpected summary %q", buf.String())
	}
}

func TestExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, sample[:1], "JSON"); err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"id\": 1,\n    \"text\": \"Buy milk\",\n    \"completed\": false\n  }\n]\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	if err := output.Export(&buf, nil, output.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, sample, output.FormatCSV); err != nil {
		t.Fatal(err)
	}
	want := "id,text,completed\n" +
		"1,Buy milk,false\n" +
		"2,\"Call\nmom\",true\n" +
		"3,\"Pay rent, \"\"soon\"\"\",false\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestExport_PDF(t *testing.T) {
	var buf bytes.Buffer
	list := append([]tasks.Task{{ID: 9, Text: "Café crème"}}, sample...)
	if err := output.Export(&buf, list, output.FormatPDF); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Errorf("expected a PDF document, got %q", buf.String()[:min(20, buf.Len())])
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Export(&buf, sample, "xml"); err == nil {
		t.Error("expected error")
	}
}
