// Package validator checks a delimited-text stream against the
// structural rules of RFC 4180 and a configurable strictness policy.
//
// The validator consumes the scanner's record stream, applies a fixed
// sequence of per-record rules (field-count consistency, line-ending
// discipline, quote well-formedness, special-character escaping), and
// accumulates typed defects instead of failing on the first problem.
// Its sole output is a defect.Result: an ordered defect list plus a
// verdict.
//
//	result := validator.Validate(f, validator.Mode{
//		Delimiter:     ',',
//		StrictRFC4180: true,
//	})
//	if !result.Valid {
//		for _, d := range result.Defects {
//			fmt.Println(d)
//		}
//	}
package validator
