package main

import (
	"bytes"
	"io"
	"net/url"
	"os"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// openZstdSink opens the file named by a zstd:// URL for compressed logging.
// A file that already holds zstd frames is appended to; anything else is
// truncated so the result stays decodable.
func openZstdSink(u *url.URL) (zap.Sink, error) {
	path := u.Path
	flags := os.O_CREATE | os.O_WRONLY

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if hasZstdMagic(path) {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &zstdSink{file: file, encoder: encoder}, nil
}

func hasZstdMagic(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() {
		_ = file.Close()
	}()

	header := make([]byte, len(zstdMagic))
	if _, err := io.ReadFull(file, header); err != nil {
		return false
	}
	return bytes.Equal(header, zstdMagic)
}

type zstdSink struct {
	file    *os.File
	encoder *zstd.Encoder
}

// Write reports len(p) rather than the compressed size.
func (s *zstdSink) Write(p []byte) (int, error) {
	if _, err := s.encoder.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *zstdSink) Sync() error {
	if err := s.encoder.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close finishes the frame and always closes the file.
func (s *zstdSink) Close() error {
	encErr := s.encoder.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return encErr
	}
	return fileErr
}
