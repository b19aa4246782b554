package gesture

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// ScriptRow is one keyframe of a gesture script. X and Y are normalized
// image coordinates of the first landmark.
type ScriptRow struct {
	TimeMS   int64   `csv:"time_ms"`
	Category string  `csv:"category"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
}

// ScriptedRecognizer replays a gesture timeline. Each call returns the last
// keyframe at or before the timestamp.
type ScriptedRecognizer struct {
	rows []ScriptRow
}

// NewScriptedRecognizer sorts rows by time.
func NewScriptedRecognizer(rows []ScriptRow) *ScriptedRecognizer {
	sorted := make([]ScriptRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeMS < sorted[j].TimeMS })
	return &ScriptedRecognizer{rows: sorted}
}

// ReadScript parses a CSV timeline with a time_ms,category,x,y header.
func ReadScript(r io.Reader) (*ScriptedRecognizer, error) {
	var rows []ScriptRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing gesture script: %w", err)
	}
	return NewScriptedRecognizer(rows), nil
}

// ScriptLoader returns a Loader that reads the script at path.
func ScriptLoader(path string) Loader {
	return func(ctx context.Context) (Recognizer, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening gesture script: %w", err)
		}
		defer f.Close()
		return ReadScript(f)
	}
}

// Recognize returns the active keyframe as a single-hand result. A None or
// empty category yields no hands.
func (s *ScriptedRecognizer) Recognize(_ Frame, timestampMs int64) (Result, error) {
	i := sort.Search(len(s.rows), func(i int) bool { return s.rows[i].TimeMS > timestampMs })
	if i == 0 {
		return Result{}, nil
	}
	row := s.rows[i-1]
	if ParseCategory(row.Category) == CategoryNone {
		return Result{}, nil
	}
	return handResult(row.Category, row.X, row.Y), nil
}

// Len returns the number of keyframes.
func (s *ScriptedRecognizer) Len() int {
	return len(s.rows)
}

func handResult(label string, x, y float64) Result {
	return Result{
		Gestures:  [][]Classification{{{CategoryName: label, Score: 1}}},
		Landmarks: [][]Landmark{{{X: x, Y: y}}},
	}
}
