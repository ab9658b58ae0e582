// Package archive writes the board to a zstd compressed JSON Lines stream.
//
// The first line is a Header. Every following line is one fully loaded
// question with its answers and voters, newest question first.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/version"
)

// Format identifies archives written by this package.
const Format = "qboard-export/1"

// Header opens every archive.
type Header struct {
	Format     string    `json:"format"`
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
}

// Source yields every question from one consistent snapshot.
type Source interface {
	EachQuestion(ctx context.Context, fn func(core.Question) error) error
}

// Export streams all questions of src into w and returns how many were
// written. w is not closed.
func Export(ctx context.Context, src Source, w io.Writer) (int, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("creating zstd encoder: %w", err)
	}
	jw := json.NewEncoder(enc)

	header := Header{Format: Format, Version: version.Version, ExportedAt: time.Now().UTC()}
	if err := jw.Encode(header); err != nil {
		enc.Close()
		return 0, fmt.Errorf("writing header: %w", err)
	}

	n := 0
	err = src.EachQuestion(ctx, func(q core.Question) error {
		if err := jw.Encode(q); err != nil {
			return fmt.Errorf("writing question %d: %w", q.ID, err)
		}
		n++
		return nil
	})
	if err != nil {
		enc.Close()
		return n, err
	}
	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("flushing zstd stream: %w", err)
	}
	return n, nil
}

// Read decodes an archive, calling fn for each question in file order.
func Read(r io.Reader, fn func(core.Question) error) (Header, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	jr := json.NewDecoder(bufio.NewReader(dec))
	var header Header
	if err := jr.Decode(&header); err != nil {
		return Header{}, fmt.Errorf("reading header: %w", err)
	}
	if header.Format != Format {
		return header, fmt.Errorf("unsupported archive format %q", header.Format)
	}

	for {
		var q core.Question
		err := jr.Decode(&q)
		if errors.Is(err, io.EOF) {
			return header, nil
		}
		if err != nil {
			return header, fmt.Errorf("reading question: %w", err)
		}
		if err := fn(q); err != nil {
			return header, err
		}
	}
}
