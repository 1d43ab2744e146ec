package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// A LoadResult holds the records parsed from a trace file and the number of
// lines that could not be parsed.
type LoadResult struct {
	Records   []Record
	Malformed int
}

// LoadFile reads a newline-delimited JSON trace from a file. See Load.
func LoadFile(path string, tail int) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer f.Close()

	return Load(f, tail)
}

// Load reads a newline-delimited JSON trace. If tail is positive, only the
// last tail lines are kept. Lines that fail to parse are skipped and
// counted, never fatal.
//
// If any kept record is missing its depth field, or carries a negative one,
// depths are reconstructed for the whole trace with AssignDepths.
func Load(r io.Reader, tail int) (LoadResult, error) {
	lines, err := tailLines(r, tail)
	if err != nil {
		return LoadResult{}, err
	}

	res := LoadResult{}
	depthsUsable := true

	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			res.Malformed++
			continue
		}

		if depthsUsable {
			var probe struct {
				Depth *int `json:"depth"`
			}
			_ = json.Unmarshal([]byte(line), &probe)
			if probe.Depth == nil || *probe.Depth < 0 {
				depthsUsable = false
			}
		}

		res.Records = append(res.Records, rec)
	}

	if !depthsUsable {
		AssignDepths(res.Records)
	}

	return res, nil
}

// tailLines collects the last tail non-empty lines, or all of them when tail
// is zero or negative.
func tailLines(r io.Reader, tail int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	start := 0
	wrapped := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if tail > 0 && len(lines) == tail {
			lines[start] = line
			start = (start + 1) % tail
			wrapped = true
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !wrapped {
		return lines, nil
	}

	ordered := make([]string, 0, len(lines))
	ordered = append(ordered, lines[start:]...)
	ordered = append(ordered, lines[:start]...)

	return ordered, nil
}
