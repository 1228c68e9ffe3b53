package filestore

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// scanLines is a bufio.SplitFunc that ends a line at "\n", "\r" or "\r\n".
// The terminator is not part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': need one more byte to tell "\r" from "\r\n".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// readLines reads r line by line and returns every line followed by "\n".
// Lines may be up to maxLineSize bytes, not counting the terminator.
// On error the lines read so far are returned with it.
func readLines(r io.Reader, maxLineSize int) (string, error) {
	// Room for the line plus "\r\n".
	limit := maxLineSize + 2

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(limit, 64*1024)), limit)
	sc.Split(scanLines)

	var sb strings.Builder
	for sc.Scan() {
		// The buffer admits one byte more than the limit when the
		// terminator is a single byte.
		if len(sc.Bytes()) > maxLineSize {
			return sb.String(), bufio.ErrTooLong
		}
		sb.Write(sc.Bytes())
		sb.WriteByte('\n')
	}
	return sb.String(), sc.Err()
}
