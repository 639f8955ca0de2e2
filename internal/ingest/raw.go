package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type rawSink struct {
	w *bufio.Writer
}

func (p *Pipeline) rawWriter() *rawSink {
	if p.opts.RawOut == nil {
		return &rawSink{}
	}
	return &rawSink{w: bufio.NewWriter(p.opts.RawOut)}
}

func (s *rawSink) write(lines []string) error {
	if s.w == nil {
		return nil
	}
	for _, line := range lines {
		if _, err := s.w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write raw output: %w", err)
		}
	}
	return nil
}

func (s *rawSink) flush() error {
	if s.w == nil {
		return nil
	}
	return s.w.Flush()
}

// CreateRawFile opens path for raw-profile output, zstd-compressed when
// the name ends in .zst. The returned closer flushes and closes both
// layers.
func CreateRawFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create raw output: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	return &zstdFile{enc: enc, f: f}, nil
}

type zstdFile struct {
	enc *zstd.Encoder
	f   *os.File
}

func (z *zstdFile) Write(b []byte) (int, error) {
	return z.enc.Write(b)
}

func (z *zstdFile) Close() error {
	if err := z.enc.Close(); err != nil {
		z.f.Close()
		return err
	}
	return z.f.Close()
}
