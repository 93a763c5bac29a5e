// Package loader reads a delimited flat file into a typed models.Table.
package loader

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cinelens/pkg/compression"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
	"github.com/ajitpratap0/cinelens/pkg/schema"
)

// cancellation is checked once per this many rows
const ctxCheckInterval = 4096

// Options control how the file is split and typed
type Options struct {
	// Delimiter separates fields; zero means ','
	Delimiter rune
	// NullTokens are the cell spellings treated as missing; nil selects the defaults
	NullTokens []string
	// Logger receives load diagnostics; nil discards them
	Logger *zap.Logger
}

// Result is the loaded table plus what inference decided per column
type Result struct {
	Table   *models.Table
	Columns []*schema.InferredType
}

// Load reads the CSV file at path. A .gz, .zst, .lz4, .sz or .s2 extension
// selects the matching decompressor.
//
// A missing or unreadable path yields an io error. A row whose field count
// differs from the header yields a parse error naming the line.
func Load(ctx context.Context, path string, opts Options) (*Result, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is the user's input file
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open input file").
			WithDetail("path", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to stat input file").
			WithDetail("path", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrorTypeIO, "input path is a directory").
			WithDetail("path", path)
	}

	r, err := compression.NewReader(file, compression.FromPath(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open compressed input").
			WithDetail("path", path)
	}
	defer r.Close()

	return LoadReader(ctx, r, opts)
}

// LoadReader reads CSV data from r
func LoadReader(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	// Field counts are checked below so the error can carry our parse type
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeParse, "input has no header row")
	}
	if err != nil {
		return nil, wrapReadError(err, "failed to read header row")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	raw := make([][]string, 0, 1024)
	for {
		if len(raw)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadError(err, "failed to read row")
		}
		if len(record) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, errors.Newf(errors.ErrorTypeParse, "line %d has %d fields, header has %d", line, len(record), len(header)).
				WithDetail("line", line)
		}
		raw = append(raw, record)
	}

	engine := schema.NewTypeInferenceEngine(logger, opts.NullTokens)

	columns := make([]models.Column, len(header))
	inferred := make([]*schema.InferredType, len(header))
	cells := make([]string, len(raw))
	for c, name := range header {
		for r := range raw {
			cells[r] = raw[r][c]
		}
		inferred[c] = engine.InferType(name, cells)
		columns[c] = models.Column{Name: name, Kind: inferred[c].Kind}
	}

	rows := make([][]models.Value, len(raw))
	for r, record := range raw {
		row := make([]models.Value, len(columns))
		for c, cell := range record {
			v, err := engine.Convert(columns[c].Kind, cell)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to convert cell").
					WithDetail("row", r+1).
					WithDetail("column", columns[c].Name)
			}
			row[c] = v
		}
		rows[r] = row
	}

	table, err := models.NewTable(columns, rows)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded table",
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", table.NumCols()))

	return &Result{Table: table, Columns: inferred}, nil
}

func wrapReadError(err error, message string) error {
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		return errors.Wrap(err, errors.ErrorTypeParse, message).WithDetail("line", parseErr.Line)
	}
	return errors.Wrap(err, errors.ErrorTypeIO, message)
}
