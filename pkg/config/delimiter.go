package config

import "fmt"

// ParseDelimiter converts a delimiter spelling from a flag or
// configuration file into its byte value. Tab may be written as the
// two-character escape `\t`; any other spelling must be exactly one
// character.
func ParseDelimiter(s string) (byte, error) {
	switch s {
	case ",":
		return ',', nil
	case `\t`:
		return '\t', nil
	case "|":
		return '|', nil
	case ":":
		return ':', nil
	case ";":
		return ';', nil
	}
	if len(s) == 1 {
		return s[0], nil
	}
	return 0, fmt.Errorf("error parsing delimiter %q, note that only one-character delimiters are supported", s)
}
