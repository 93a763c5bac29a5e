// Package errors provides examples of structured error handling in cinelens.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeSchema, "column not found").
		WithDetail("column", "tagline")

	fmt.Println(err.Error())

	// Output:
	// schema: column not found
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeIO, "failed to read CSV file").
		WithDetail("file", "tmdb-movies.csv")

	if errors.IsType(err, errors.ErrorTypeIO) {
		fmt.Println("This is an io error")
	}
	fmt.Println(err)

	// Output:
	// This is an io error
	// io: failed to read CSV file: unexpected EOF
}

// ExampleTypeOf demonstrates recovering the error kind through fmt wrapping.
func ExampleTypeOf() {
	inner := errors.Newf(errors.ErrorTypeEmptyTable, "no rows to search for %s", "revenue")
	wrapped := fmt.Errorf("question 5: %w", inner)

	fmt.Println(errors.TypeOf(wrapped))
	fmt.Println(errors.TypeOf(io.EOF))

	// Output:
	// empty_table
	// internal
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	parseErr := errors.New(errors.ErrorTypeParse, "unparseable date")
	wrappedErr := errors.Wrap(parseErr, errors.ErrorTypeConfig, "bad date layout")

	fmt.Printf("Is parse error: %v\n", errors.IsType(parseErr, errors.ErrorTypeParse))
	fmt.Printf("Wrapped error is config type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeConfig))
	fmt.Printf("Wrapped error is parse type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeParse))

	// Output:
	// Is parse error: true
	// Wrapped error is config type: true
	// Wrapped error is parse type: false
}
