// Copyright 2024 Fudong and Hosen
// This file is part of the treemut library.
//
// The treemut library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The treemut library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the treemut library. If not, see <http://www.gnu.org/licenses/>.

// Package codec implements the binary form of a tree exchanged with the host.
// Trees are RLP encoded; both directions enforce a size ceiling.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/AgnopraxLab/treemut/grammar"
)

// DefaultMaxSize is the default ceiling on an encoded tree (1 MiB).
const DefaultMaxSize = 1024 * 1024

var (
	// ErrDecode reports truncated, malformed or oversize input.
	ErrDecode = errors.New("malformed tree encoding")
	// ErrOverflow reports that an encoding does not fit the output bound.
	ErrOverflow = errors.New("encoded tree exceeds size limit")
)

// Config holds codec settings
type Config struct {
	MaxSize int `yaml:"max_size"` // Hard ceiling on encoded trees in bytes
}

// DefaultConfig returns the default codec configuration
func DefaultConfig() Config {
	return Config{MaxSize: DefaultMaxSize}
}

// Validate validates the codec configuration
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive, got %d", c.MaxSize)
	}
	return nil
}

// Codec encodes and decodes trees under a fixed size ceiling. It holds no
// mutable state and is safe for concurrent use.
type Codec struct {
	maxSize int
}

// New creates a codec. A non-positive MaxSize selects DefaultMaxSize.
func New(cfg Config) *Codec {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	return &Codec{maxSize: cfg.MaxSize}
}

// MaxSize returns the encoding ceiling.
func (c *Codec) MaxSize() int {
	return c.maxSize
}

// Decode parses exactly one encoded tree. Every failure wraps ErrDecode.
func (c *Codec) Decode(data []byte) (*grammar.Root, error) {
	if len(data) > c.maxSize {
		return nil, fmt.Errorf("%w: input of %d bytes exceeds %d", ErrDecode, len(data), c.maxSize)
	}
	root := new(grammar.Root)
	if err := rlp.DecodeBytes(data, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return root, nil
}

// ReadFrom decodes one tree from r, reading at most MaxSize bytes.
func (c *Codec) ReadFrom(r io.Reader) (*grammar.Root, error) {
	root := new(grammar.Root)
	stream := rlp.NewStream(r, uint64(c.maxSize))
	if err := stream.Decode(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return root, nil
}

// Encode writes the encoding of root into dst and returns its length. The
// output is bounded by both len(dst) and MaxSize; nothing is written past
// that bound, and an encoding that does not fit yields ErrOverflow.
func (c *Codec) Encode(dst []byte, root *grammar.Root) (int, error) {
	if len(dst) > c.maxSize {
		dst = dst[:c.maxSize]
	}
	w := &boundedWriter{buf: dst}
	if err := rlp.Encode(w, root); err != nil {
		if errors.Is(err, ErrOverflow) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to encode tree: %w", err)
	}
	return w.n, nil
}

// EncodeToBytes returns the encoding of root in a fresh slice.
func (c *Codec) EncodeToBytes(root *grammar.Root) ([]byte, error) {
	data, err := rlp.EncodeToBytes(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	if len(data) > c.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrOverflow, len(data), c.maxSize)
	}
	return data, nil
}

// boundedWriter fills a fixed buffer and refuses writes that would not fit.
type boundedWriter struct {
	buf []byte
	n   int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	if len(p) > len(w.buf)-w.n {
		return 0, ErrOverflow
	}
	w.n += copy(w.buf[w.n:], p)
	return len(p), nil
}
