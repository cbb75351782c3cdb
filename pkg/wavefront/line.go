package wavefront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	keywordSeparators = " \t"
	dataTrailing      = " \t\r\n"
)

// ClassifyLine splits a raw line into its keyword and trailing data.
// Blank lines yield an empty keyword.
func ClassifyLine(line string) (keyword, data string) {
	rest := strings.TrimLeft(line, keywordSeparators)
	rest = strings.TrimRight(rest, "\r\n")
	if strings.TrimSpace(rest) == "" {
		return "", ""
	}

	end := strings.IndexAny(rest, keywordSeparators)
	if end < 0 {
		return rest, ""
	}
	keyword = rest[:end]
	data = strings.TrimLeft(rest[end:], keywordSeparators)
	data = strings.TrimRight(data, dataTrailing)
	return keyword, data
}

// SplitAt splits s at every occurrence of sep. A trailing separator does not
// produce an empty final element.
func SplitAt(s string, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// parseScalar parses a single float token.
func parseScalar(tok string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, tok)
	}
	return float32(f), nil
}

// parseVector parses up to four whitespace-separated floats. Missing
// components are zero; extra components are ignored.
func parseVector(data string) (mgl32.Vec4, error) {
	var v mgl32.Vec4
	for i, tok := range strings.Fields(data) {
		if i >= len(v) {
			break
		}
		f, err := parseScalar(tok)
		if err != nil {
			return mgl32.Vec4{}, err
		}
		v[i] = f
	}
	return v, nil
}
