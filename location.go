// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package streamjson

// Span records a half-open byte range [Pos, End) within a source window.
// Unlike the teacher's Location, Span carries no line/column information:
// this package only ever needs byte offsets for recovery bookkeeping.
type Span struct {
	Pos int
	End int
}

// Len reports the number of bytes spanned.
func (s Span) Len() int { return s.End - s.Pos }
