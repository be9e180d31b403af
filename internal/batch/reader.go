package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 1024 * 1024

type InputRecord struct {
	LineNumber int
	Request    models.ReportRequest
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		r:      r,
		logger: logger,
	}
}

// ReadAll streams one record per non-blank line. Line numbers count blank lines.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := parseLine(lineNumber, line)
			if record.Error != nil {
				r.logger.Debug().Err(record.Error).Int("line", lineNumber).Msg("Invalid input line")
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("Failed to read input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

func parseLine(lineNumber int, line string) InputRecord {
	var req models.ReportRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return InputRecord{LineNumber: lineNumber, Error: fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)}
	}
	if strings.TrimSpace(req.Query) == "" {
		return InputRecord{LineNumber: lineNumber, Request: req, Error: fmt.Errorf("line %d: missing query", lineNumber)}
	}
	return InputRecord{LineNumber: lineNumber, Request: req}
}

// PresetRecords turns the configured preset queries into records judged by judge.
func PresetRecords(queries []string, judge string) []InputRecord {
	records := make([]InputRecord, 0, len(queries))
	for i, q := range queries {
		records = append(records, InputRecord{
			LineNumber: i + 1,
			Request:    models.ReportRequest{Judge: judge, Query: q},
		})
	}
	return records
}
