package parser

import "io"

// Parser defines a generic interface for normalizing an upstream JSON payload into records
type Parser[T any] interface {
	Parse(body io.Reader) ([]T, error)
}
