// File: pkg/combine/binary.go
package combine

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// binaryThreshold is the share of non-printable bytes above which a prefix is binary.
const binaryThreshold = 0.3

// IsBinaryFile opens filePath and classifies its first SniffSize bytes.
func IsBinaryFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	return SniffBinary(file)
}

// SniffBinary checks if the reader is likely to be binary by reading at most
// SniffSize bytes and checking for null bytes or a high ratio of non-printable
// characters. Empty input is text.
func SniffBinary(r io.Reader) (bool, error) {
	buffer := make([]byte, SniffSize)
	n, err := io.ReadFull(r, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return classify(buffer[:n]), nil
}

func classify(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	if bytes.IndexByte(prefix, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range prefix {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(prefix)) > binaryThreshold
}

// isPrintable treats ASCII control characters other than common whitespace as
// non-printable. Bytes >= 0x80 are accepted so UTF-8 text is not flagged.
func isPrintable(b byte) bool {
	switch b {
	case '\n', '\r', '\t', '\f', '\b', 0x1b:
		return true
	}
	return b >= 32 && b != 0x7f
}
