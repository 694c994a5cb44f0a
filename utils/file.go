package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// SeedHash returns the sha3-256 digest naming an encoded seed
func SeedHash(data []byte) common.Hash {
	h := sha3.New256()
	h.Write(data)
	return common.BytesToHash(h.Sum(nil))
}

// WriteSeed writes an encoded seed into dir under its content hash and
// returns the file path. Writing the same seed twice is a no-op.
func WriteSeed(dir string, data []byte) (string, common.Hash, error) {
	hash := SeedHash(data)
	path := filepath.Join(dir, common.Bytes2Hex(hash[:]))
	if FileExists(path) {
		return path, hash, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", hash, fmt.Errorf("failed to write seed %s: %w", path, err)
	}
	return path, hash, nil
}

// AppendToFile appends content to file
func AppendToFile(filename, content string) error {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

// WriteStringToFile writes string content to a file (overwrites if exists)
func WriteStringToFile(filename, content string) error {
	return os.WriteFile(filename, []byte(content), 0644)
}

// InitHashFile initializes a hash file with a header line
func InitHashFile(filename, header string) error {
	return WriteStringToFile(filename, fmt.Sprintf("# %s\n", header))
}

// AppendHashToFile appends a single hash to the file
func AppendHashToFile(filename string, hash common.Hash) error {
	return AppendToFile(filename, hash.Hex()+"\n")
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// EnsureDir ensures a directory exists, creates it if it doesn't
func EnsureDir(dirPath string) error {
	if !FileExists(dirPath) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}
