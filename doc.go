// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package streamjson implements a restartable, byte-level JSON tokenizer
// and the grammar types shared by its companion packages.
//
// # Tokenizing
//
// CompressNextToken reads one token at a time from a [cursor.Cursor] over an
// immutable byte window:
//
//	c := cursor.New(buf)
//	for {
//	    tok, err := streamjson.CompressNextToken(c, streamjson.CompressSpacesTabsNewlines)
//	    if err != nil {
//	        break
//	    }
//	    log.Printf("token: %v", tok)
//	}
//
// CompressNextToken never blocks and never reads past the end of the
// window; running out of bytes mid-token surfaces as a [TokenizeError]
// carrying enough metadata (TokenStart, RecoveryPoint, Context) for a
// caller to refill the window and resume. See package driver for the loop
// that does this refilling.
//
// # Validating and walking
//
// The [validator] package enforces JSON grammar over a token stream
// without building a tree; the [jsonpath] package tracks a structural path
// in lockstep; the [driver] package owns a refillable buffer and drives
// the two; the [visitor] package composes all three into path-tracked
// preorder/postorder/inorder events. The consumer packages schema,
// pathprint, and fieldextract are applications built on top of the
// visitor loop; reformat reads tokens straight from a driver, and
// jsonextract runs the cursor, tokenizer, and validator itself.
package streamjson
