package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"platereader/pkg/plate"
)

var headerRule = strings.Repeat("-", 40)

// ReportWriter writes the pipe-delimited report. Indian reports skip sentinel
// rows and flush after every row; generic reports keep every row.
type ReportWriter struct {
	profile plate.Profile
	f       *os.File
	w       *bufio.Writer
	rows    int
}

// CreateReport truncates path and writes the profile header.
func CreateReport(path string, p plate.Profile) (*ReportWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	rw := &ReportWriter{profile: p, f: f, w: bufio.NewWriter(f)}
	if err := rw.writeHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return rw, nil
}

// AppendReport opens path for appending, writing the header when the file is new or empty.
func AppendReport(path string, p plate.Profile) (*ReportWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	rw := &ReportWriter{profile: p, f: f, w: bufio.NewWriter(f)}
	if fi, err := f.Stat(); err == nil && fi.Size() == 0 {
		if err := rw.writeHeader(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return rw, nil
}

func (rw *ReportWriter) writeHeader() error {
	cols := "Filename|Detected Text|Confidence"
	if !rw.profile.HasConfidence() {
		cols = "Filename|Plate Number"
	}
	if _, err := fmt.Fprintf(rw.w, "%s\n%s\n", cols, headerRule); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return rw.w.Flush()
}

// Write records res. It reports whether a row was written.
func (rw *ReportWriter) Write(res plate.Result) (bool, error) {
	if rw.profile == plate.ProfileIndian && rw.profile.IsSentinel(res.Text) {
		return false, nil
	}
	var err error
	if rw.profile.HasConfidence() {
		_, err = fmt.Fprintf(rw.w, "%s|%s|%s\n", res.Filename, res.Text, res.ConfidenceString())
	} else {
		_, err = fmt.Fprintf(rw.w, "%s|%s\n", res.Filename, res.Text)
	}
	if err != nil {
		return false, fmt.Errorf("write row %s: %w", res.Filename, err)
	}
	rw.rows++
	if rw.profile == plate.ProfileIndian {
		if err := rw.w.Flush(); err != nil {
			return false, fmt.Errorf("flush report: %w", err)
		}
	}
	return true, nil
}

// Rows is the number of rows written so far.
func (rw *ReportWriter) Rows() int { return rw.rows }

// Flush pushes buffered rows to the file.
func (rw *ReportWriter) Flush() error { return rw.w.Flush() }

// Close flushes and closes the file.
func (rw *ReportWriter) Close() error {
	ferr := rw.w.Flush()
	cerr := rw.f.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
