// Package schema infers column kinds from raw delimited-text cells.
package schema

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// DefaultNullTokens are the cell spellings treated as missing values
var DefaultNullTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL"}

// TypeInferenceEngine decides the kind of each column from its text cells
type TypeInferenceEngine struct {
	logger *zap.Logger

	nullTokens   map[string]struct{}
	datePatterns []*regexp.Regexp
}

// InferredType represents a type inference result for one column
type InferredType struct {
	Name      string      `json:"name" yaml:"name"`
	Kind      models.Kind `json:"kind" yaml:"kind"`
	Format    string      `json:"format,omitempty" yaml:"format,omitempty"`
	Nullable  bool        `json:"nullable" yaml:"nullable"`
	NullCount int         `json:"null_count" yaml:"null_count"`
}

// NewTypeInferenceEngine creates a new type inference engine. A nil token list
// selects DefaultNullTokens.
func NewTypeInferenceEngine(logger *zap.Logger, nullTokens []string) *TypeInferenceEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nullTokens == nil {
		nullTokens = DefaultNullTokens
	}

	engine := &TypeInferenceEngine{
		logger:     logger,
		nullTokens: make(map[string]struct{}, len(nullTokens)),
	}
	for _, tok := range nullTokens {
		engine.nullTokens[tok] = struct{}{}
	}

	engine.initializePatterns()

	return engine
}

// IsNull reports whether a raw cell spells a missing value
func (e *TypeInferenceEngine) IsNull(cell string) bool {
	_, ok := e.nullTokens[strings.TrimSpace(cell)]
	return ok
}

// InferType infers the kind of a column from all of its cells.
//
// Integers win when every non-null cell parses as one, floats when every cell is
// numeric, strings otherwise. Integer columns with missing cells become floats.
// A column with no values at all carries no numeric evidence and is a string.
func (e *TypeInferenceEngine) InferType(name string, cells []string) *InferredType {
	inferred := &InferredType{Name: name}

	allInt, allFloat, dateLike, present := true, true, 0, 0
	for _, raw := range cells {
		if e.IsNull(raw) {
			inferred.NullCount++
			continue
		}
		present++
		cell := strings.TrimSpace(raw)

		if allInt && !isInteger(cell) {
			allInt = false
		}
		if allFloat && !allInt && !isFloat(cell) {
			allFloat = false
		}
		if e.isDate(cell) {
			dateLike++
		}
	}
	inferred.Nullable = inferred.NullCount > 0

	switch {
	case present == 0:
		inferred.Kind = models.KindString
	case allInt && !inferred.Nullable:
		inferred.Kind = models.KindInt
	case allInt || allFloat:
		inferred.Kind = models.KindFloat
	default:
		inferred.Kind = models.KindString
		if dateLike == present {
			inferred.Format = "date"
		}
	}

	e.logger.Debug("inferred column type",
		zap.String("column", name),
		zap.String("kind", inferred.Kind.String()),
		zap.Int("nulls", inferred.NullCount))

	return inferred
}

// Convert parses a raw cell into a value of the given kind
func (e *TypeInferenceEngine) Convert(kind models.Kind, raw string) (models.Value, error) {
	if e.IsNull(raw) {
		return models.Null(kind), nil
	}
	cell := strings.TrimSpace(raw)

	switch kind {
	case models.KindInt:
		i, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return models.Value{}, errors.Wrap(err, errors.ErrorTypeParse, "invalid integer").WithDetail("value", raw)
		}
		return models.Int(i), nil
	case models.KindFloat:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return models.Value{}, errors.Wrap(err, errors.ErrorTypeParse, "invalid number").WithDetail("value", raw)
		}
		return models.Float(f), nil
	default:
		// strings keep their original spacing
		return models.String(raw), nil
	}
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (e *TypeInferenceEngine) isDate(s string) bool {
	for _, pattern := range e.datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// initializePatterns initializes regex patterns for format detection
func (e *TypeInferenceEngine) initializePatterns() {
	e.datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),            // YYYY-MM-DD
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`),        // M/D/YY
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),        // MM/DD/YYYY
		regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),            // YYYY/MM/DD
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`), // ISO 8601
	}
}
