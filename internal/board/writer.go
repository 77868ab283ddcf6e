package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteSnapshot writes a snapshot as indented JSON to fpath and prints a
// one-line summary to out. With dryRun nothing is written. It returns the
// encoded size.
func WriteSnapshot(s Snapshot, fpath string, dryRun bool, out io.Writer) (int, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot: %w", err)
	}
	data = append(data, '\n')
	size := len(data)

	if !dryRun {
		if err := os.WriteFile(fpath, data, 0644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", fpath, err)
		}
	}

	fmt.Fprintf(out, "  %s: %d widgets, %s bytes\n", filepath.Base(fpath), len(s.Dashboard.Widgets), formatSize(size))
	return size, nil
}

// formatSize groups digits in threes: 1234567 -> "1,234,567".
func formatSize(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
