package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"platereader/models"
	"platereader/pkg/store"
)

// RunReport prints stored plate records for runID (latest limit records when
// runID is empty) as id|file|text|confidence|created_at.
func RunReport(ctx context.Context, st *store.Store, w io.Writer, runID string, limit int) error {
	recs, err := st.List(ctx, runID, limit)
	if err != nil {
		return err
	}
	if runID != "" {
		fmt.Fprintf(w, "Report for run=%s:\n", runID)
	}
	return WriteRecords(w, recs)
}

// WriteRecords writes a summary line followed by one row per record.
func WriteRecords(w io.Writer, recs []models.PlateRecord) error {
	accepted := 0
	for _, r := range recs {
		if r.Accepted {
			accepted++
		}
	}
	if _, err := fmt.Fprintf(w, "  records=%d accepted=%d\n", len(recs), accepted); err != nil {
		return err
	}
	for _, r := range recs {
		conf := "-"
		if r.Confidence != nil {
			conf = strconv.FormatFloat(*r.Confidence, 'f', 3, 64)
		}
		if _, err := fmt.Fprintf(w, "%d|%s|%s|%s|%s\n", r.ID, r.FileName, r.Text, conf, r.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
