package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/okian/raidstats/internal/domain/model"
)

// FileLoader reads a JSON snapshot from disk. Paths ending in ".gz" are
// gunzipped first.
type FileLoader struct {
	Path string
}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context) (*model.MasterTable, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, l.Path, err
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, l.Path, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	t, err := Decode(f, strings.HasSuffix(l.Path, ".gz"))
	if err != nil {
		return nil, l.Path, err
	}
	return t, l.Path, nil
}

// Decode reads a snapshot document, validates it and builds its indexes.
func Decode(r io.Reader, gzipped bool) (*model.MasterTable, error) {
	if gzipped {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrInvalidSnapshot, err)
		}
		defer zr.Close()
		r = zr
	}
	var t model.MasterTable
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidSnapshot, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return t.Index(), nil
}

// Encode writes t as a snapshot document, gzipped when requested.
func Encode(w io.Writer, t *model.MasterTable, gzipped bool) error {
	if gzipped {
		zw := gzip.NewWriter(w)
		if err := json.NewEncoder(zw).Encode(t); err != nil {
			_ = zw.Close()
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return zw.Close()
	}
	if err := json.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes t to path, gzipping when path ends in ".gz".
func WriteFile(path string, t *model.MasterTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Encode(f, t, strings.HasSuffix(path, ".gz")); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
