package csv

import (
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Produces a list of values for the given columns making up a record.
type Recorder interface {
	Record(fields []string) []string
}

// An Encoder writes CSV records with a fixed column set to an output stream.
// Device records are heterogeneous, so the column set is the union of the
// fields of all registered devices, determined up front.
type Encoder struct {
	w      *csv.Writer
	fields []string
}

// NewEncoder returns a new encoder that writes records with the given
// columns to w.
func NewEncoder(w io.Writer, fields []string) *Encoder {
	return &Encoder{w: csv.NewWriter(w), fields: fields}
}

// EncodeHeader writes the column names to the stream.
func (enc *Encoder) EncodeHeader() error {
	err := enc.w.Write(enc.fields)
	enc.w.Flush()
	return err
}

// Encode writes a CSV record representing v to the stream followed by a
// newline character. Value given must implement the Recorder interface.
func (enc *Encoder) Encode(v interface{}) (err error) {
	defer func() {
		if err, _ = recover().(error); err != nil {
			err = xerrors.Errorf("recovered: %w", err)
		}
	}()

	err = enc.w.Write(v.(Recorder).Record(enc.fields))
	enc.w.Flush()

	return nil
}
