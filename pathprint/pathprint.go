// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package pathprint prints a preorder/postorder trace of a JSON
// document's structure, one line per value entered or left, in the
// ">\ttype\tpath" / "<\ttype\tpath" format of the original
// print-paths example this package generalizes to a chunked reader.
package pathprint

import (
	"fmt"
	"io"

	"github.com/creachadair/streamjson/driver"
	"github.com/creachadair/streamjson/visitor"
)

// Print reads a single JSON document from r and writes its
// preorder/postorder trace to w. bufCapacity sizes the underlying
// driver.Buffer; pass 0 to use a reasonable default.
func Print(w io.Writer, r io.Reader, bufCapacity int) error {
	if bufCapacity <= 0 {
		bufCapacity = 4096
	}
	d, err := driver.New(r, bufCapacity, func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' })
	if err != nil {
		return err
	}
	l := visitor.New(d)
	for {
		ev, err := l.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.IsStartOfValue {
			typ, _ := ev.Token.ValueType()
			if _, err := fmt.Fprintf(w, ">\t%s\t%s\n", typ, ev.Path); err != nil {
				return err
			}
		}
		if ev.IsEndOfValue {
			typ, _ := ev.Token.ValueType()
			if _, err := fmt.Fprintf(w, "<\t%s\t%s\n", typ, ev.EndPath); err != nil {
				return err
			}
		}
	}
}
