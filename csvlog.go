package sipper

import (
	"encoding/csv"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// CSVSink appends one row per cycle to a plain CSV file. The column order
// is frozen by the header: on a fresh file it is the snapshot key order at
// the first write, on an existing file (a watchdog restart re-opening its
// own log) it is the header already on disk. Keys the store gains later are
// silently dropped from rows, never appended as new columns.
// The mutex serializes Append against Close: the engine appends on its own
// goroutine while a restart or shutdown may close the sink from another.
type CSVSink struct {
	path string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	fields []string
	closed bool
}

func NewCSVSink(path string) (*CSVSink, error) {
	fields, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open log file %s", path)
	}
	return &CSVSink{
		path:   path,
		file:   f,
		writer: csv.NewWriter(f),
		fields: fields,
	}, nil
}

// readHeader adopts the frozen column order from an existing log file.
// A missing or empty file leaves the order to be frozen at the first write.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "unable to read log file %s", path)
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		// empty or truncated file, start over with a new header
		return nil, nil
	}
	if len(header) < 2 || header[0] != "timestamp" || header[len(header)-1] != "GEAR" {
		return nil, errors.Errorf("log file %s has an unrecognized header", path)
	}
	return header[1 : len(header)-1], nil
}

func (s *CSVSink) Append(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.Errorf("log file %s is closed", s.path)
	}
	if s.fields == nil {
		s.fields = snap.Keys
		header := append(append([]string{"timestamp"}, s.fields...), "GEAR")
		if err := s.writer.Write(header); err != nil {
			s.fields = nil
			return errors.Wrapf(err, "unable to write header to %s", s.path)
		}
	}

	rpm := int(ParseFirstFloat(snap.Get(KeyRPM), 0))
	speed := int(ParseFirstFloat(snap.Get(KeySpeed), 0))

	row := make([]string, 0, len(s.fields)+2)
	row = append(row, snap.Time.Format(time.RFC3339))
	for _, field := range s.fields {
		row = append(row, snap.Get(field))
	}
	row = append(row, EstimateGear(rpm, speed))

	if err := s.writer.Write(row); err != nil {
		return errors.Wrapf(err, "unable to write row to %s", s.path)
	}
	s.writer.Flush()
	return errors.Wrapf(s.writer.Error(), "unable to flush %s", s.path)
}

// Close flushes and closes the log. It is safe to call more than once; the
// shutdown and restart paths may both reach it.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return errors.Wrapf(err, "unable to flush %s", s.path)
	}
	return s.file.Close()
}

// DefaultLogName builds a timestamped log file name for a fresh run.
func DefaultLogName(now time.Time) string {
	return "ecu_log_" + now.Format("20060102_150405") + ".csv"
}
