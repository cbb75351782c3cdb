package wavefront

import (
	"bufio"
	"errors"
	"io"
)

// lineFunc handles one classified, non-blank line.
type lineFunc func(line int, keyword, data string) error

// scanLines feeds every non-blank line of r through ClassifyLine and fn.
// It stops at the first error returned by fn and reports how many bytes were read.
func scanLines(r io.Reader, fn lineFunc) (int64, error) {
	br := bufio.NewReader(r)
	var total int64
	for lineNo := 1; ; lineNo++ {
		text, err := br.ReadString('\n')
		total += int64(len(text))
		if err != nil && !errors.Is(err, io.EOF) {
			return total, err
		}

		if keyword, data := ClassifyLine(text); keyword != "" {
			if ferr := fn(lineNo, keyword, data); ferr != nil {
				return total, ferr
			}
		}

		if errors.Is(err, io.EOF) {
			return total, nil
		}
	}
}
