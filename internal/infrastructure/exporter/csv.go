package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/statpulse/harvester/internal/domain/statistics"
	"github.com/statpulse/harvester/internal/usecase"
)

// metaColumns precede the statistic columns in every export file. The
// statistic columns follow in schema order, then the provenance columns.
var metaColumns = []string{
	"collected_at",
	"match_id",
	"home_team",
	"away_team",
	"competition",
	"category",
	"tier",
	"home_score",
	"away_score",
	"status",
	"venue",
}

var provenanceColumns = []string{
	"source",
	"non_zero_count",
	"completeness",
	"high_quality",
}

// CSVWriter writes resolved-record batches as timestamped CSV files. Files
// are written to a temp name and renamed into place, so readers never see
// a partial batch.
type CSVWriter struct {
	dir string
	now func() time.Time
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now}
}

func (w *CSVWriter) WriteBatch(ctx context.Context, records []usecase.ResolvedRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", crerr.Wrap(err, "create export directory")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writeHeader(buf)
	for _, record := range records {
		writeRow(buf, record)
	}

	name := "match_stats_" + w.now().UTC().Format("20060102_150405") + ".csv"
	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", crerr.Wrap(err, "write export file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", crerr.Wrap(err, "publish export file")
	}

	return path, nil
}

func writeHeader(buf *bytebufferpool.ByteBuffer) {
	for i, column := range metaColumns {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(column)
	}
	for _, key := range statistics.SchemaKeys() {
		buf.WriteByte(',')
		buf.WriteString(key)
	}
	for _, column := range provenanceColumns {
		buf.WriteByte(',')
		buf.WriteString(column)
	}
	buf.WriteByte('\n')
}

func writeRow(buf *bytebufferpool.ByteBuffer, record usecase.ResolvedRecord) {
	writeField(buf, record.CollectedAt.UTC().Format(time.RFC3339))
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatInt(record.Match.ID, 10))
	buf.WriteByte(',')
	writeField(buf, record.Match.HomeTeam)
	buf.WriteByte(',')
	writeField(buf, record.Match.AwayTeam)
	buf.WriteByte(',')
	writeField(buf, record.Match.Competition)
	buf.WriteByte(',')
	writeField(buf, record.Match.Category)
	buf.WriteByte(',')
	writeField(buf, record.Tier.String())
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(record.Match.HomeScore))
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(record.Match.AwayScore))
	buf.WriteByte(',')
	writeField(buf, record.Match.Status)
	buf.WriteByte(',')
	writeField(buf, record.Match.Venue)

	for _, key := range statistics.SchemaKeys() {
		buf.WriteByte(',')
		buf.WriteString(formatStat(record.Resolution.Stats.Get(key)))
	}

	buf.WriteByte(',')
	writeField(buf, record.Resolution.Source)
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(record.Resolution.NonZeroCount))
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatFloat(record.Verdict.Completeness, 'f', 2, 64))
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatBool(record.Verdict.HighQuality))
	buf.WriteByte('\n')
}

// writeField quotes a value only when it contains a delimiter, quote, or
// newline, matching encoding/csv output for plain values.
func writeField(buf *bytebufferpool.ByteBuffer, value string) {
	if !needsQuoting(value) {
		buf.WriteString(value)
		return
	}
	buf.WriteByte('"')
	for i := 0; i < len(value); i++ {
		if value[i] == '"' {
			buf.WriteByte('"')
		}
		buf.WriteByte(value[i])
	}
	buf.WriteByte('"')
}

func needsQuoting(value string) bool {
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case ',', '"', '\n', '\r':
			return true
		}
	}
	return false
}

// formatStat renders whole numbers without a decimal point; possession and
// other ratio statistics keep their fraction.
func formatStat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}
