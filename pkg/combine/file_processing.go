package combine

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// ReadFile reads filePath in ChunkSize pieces and captures its metadata with
// a single stat on the open handle. Changes made during the read are not detected.
func ReadFile(filePath string) ([]byte, FileMetadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, FileMetadata{}, newReadError(filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, FileMetadata{}, newReadError(filePath, err)
	}
	meta := metadataFromInfo(info)

	var buf bytes.Buffer
	if meta.Size > 0 {
		buf.Grow(int(meta.Size))
	}
	if _, err := copyChunked(&buf, file); err != nil {
		return nil, FileMetadata{}, newReadError(filePath, err)
	}
	return buf.Bytes(), meta, nil
}

// copyChunked copies r into w through one ChunkSize buffer.
func copyChunked(w io.Writer, r io.Reader) (int64, error) {
	chunk := make([]byte, ChunkSize)
	var total int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			written, werr := w.Write(chunk[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// statFile returns the metadata of filePath without reading it.
func statFile(filePath string) (FileMetadata, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return FileMetadata{}, newReadError(filePath, err)
	}
	return metadataFromInfo(info), nil
}

func metadataFromInfo(info os.FileInfo) FileMetadata {
	return FileMetadata{
		Size:     info.Size(),
		Created:  createdTime(info),
		Modified: info.ModTime(),
	}
}
