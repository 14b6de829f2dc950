package models

import "github.com/Belphemur/ShowFinder/internal/apperrors"

// Result holds either the records produced by a pipeline run or the error that stopped it.
type Result[T any] struct {
	Records []T
	Err     error
}

// OK reports whether the run succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Kind classifies the failure, or returns apperrors.KindNone on success.
func (r Result[T]) Kind() apperrors.Kind {
	return apperrors.KindOf(r.Err)
}
