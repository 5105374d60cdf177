package commands

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	errWrongArity = errors.New("wrong number of arguments")
	errNotANumber = errors.New("price is not a number")
	errBadBand    = errors.New("lower bound not below upper bound")
)

// parseBandArgs parses "SYMBOL LOWER UPPER" command arguments. The symbol is
// upper-cased; validation failures come back as one of the sentinel errors above.
func parseBandArgs(args string) (string, float64, float64, error) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return "", 0, 0, errWrongArity
	}

	symbol := strings.ToUpper(parts[0])

	lower, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, errNotANumber
	}

	upper, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, errNotANumber
	}

	if lower >= upper {
		return "", 0, 0, errBadBand
	}

	return symbol, lower, upper, nil
}

// parseSymbolArg parses a single-symbol argument list ("/remove STOCK").
func parseSymbolArg(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) != 1 {
		return "", errWrongArity
	}
	return strings.ToUpper(parts[0]), nil
}
