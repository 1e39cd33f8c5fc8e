// Package scanner tokenizes delimited text into records.
//
// The scanner is a single-pass, streaming state machine: it consumes a
// byte stream incrementally, applies quoting and delimiter rules, and
// yields one Record at a time. Low-level problems (bare quotes,
// unterminated quotes, malformed escapes, invalid UTF-8) are recorded
// as Malformations on the affected record instead of aborting the
// scan, so a validator can report every issue in one run. Invalid
// UTF-8 is the exception: once text integrity is violated, further
// decoding is unreliable and the scanner terminates the stream.
//
// Basic usage:
//
//	sc := scanner.New(r, ',', false)
//	for {
//		rec, err := sc.Scan()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		// consume rec
//	}
package scanner
