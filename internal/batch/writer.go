package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL = "jsonl"
	FormatTable = "table"
)

var tableHeaders = []string{"Line", "Request ID", "Judge", "Failed Models", "Report Size", "Error"}

// Writer emits results as JSON lines, or collects them into a table rendered on Close.
type Writer struct {
	w      io.Writer
	format string
	enc    *json.Encoder
	rows   [][]string
	logger *zerolog.Logger
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatTable:
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are %s, %s", format, FormatJSONL, FormatTable)
	}

	return &Writer{
		w:      w,
		format: format,
		enc:    json.NewEncoder(w),
		logger: logger,
	}, nil
}

// jsonlError is written in place of a report for rejected lines.
type jsonlError struct {
	Line      int    `json:"line"`
	RequestID string `json:"request_id,omitempty"`
	Judge     string `json:"judge,omitempty"`
	Error     string `json:"error"`
}

func (w *Writer) Write(result Result) error {
	if w.format == FormatTable {
		w.rows = append(w.rows, tableRow(result))
		return nil
	}

	if result.Err != nil {
		return w.enc.Encode(jsonlError{
			Line:      result.LineNumber,
			RequestID: result.Request.RequestID,
			Judge:     result.Request.Judge,
			Error:     result.Err.Error(),
		})
	}
	return w.enc.Encode(result.Report)
}

func tableRow(result Result) []string {
	line := strconv.Itoa(result.LineNumber)
	if result.Err != nil {
		return []string{line, result.Request.RequestID, result.Request.Judge, "-", "-", result.Err.Error()}
	}

	failed := "-"
	if names := result.Report.FailedModels(); len(names) > 0 {
		failed = strings.Join(names, ", ")
	}

	return []string{
		line,
		result.Report.ID,
		result.Report.JudgeLabel,
		failed,
		strconv.Itoa(len(result.Report.Text)),
		"",
	}
}

func (w *Writer) Close() error {
	if w.format != FormatTable {
		return nil
	}

	table := tablewriter.NewTable(w.w,
		tablewriter.WithHeader(tableHeaders),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	for _, row := range w.rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append table row: %w", err)
		}
	}

	w.logger.Debug().Int("rows", len(w.rows)).Msg("Rendering summary table")
	return table.Render()
}
