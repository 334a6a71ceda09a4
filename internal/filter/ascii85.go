// Package filter implements the string/byte-stream codecs of spec §4.4
// (C13): ASCII85 decoding and encoding, and a read-into-buffer helper.
package filter

import (
	"bytes"
	"encoding/ascii85"
	"io"

	"pdlvm/internal/perrors"
)

// ASCII85Decode decodes an Adobe-style ASCII85 stream (optionally wrapped in
// "<~" ... "~>" delimiters) into raw bytes.
func ASCII85Decode(src []byte) ([]byte, error) {
	body := bytes.TrimSpace(src)
	body = bytes.TrimPrefix(body, []byte("<~"))
	if i := bytes.Index(body, []byte("~>")); i >= 0 {
		body = body[:i]
	}
	dst := make([]byte, len(body))
	n, _, err := ascii85.Decode(dst, body, true)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.IOError, "ascii85 decode failed")
	}
	return dst[:n], nil
}

// ASCII85Encode encodes raw bytes into a "<~...~>"-delimited ASCII85 stream.
func ASCII85Encode(src []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<~")
	enc := ascii85.NewEncoder(&buf)
	enc.Write(src)
	enc.Close()
	buf.WriteString("~>")
	return buf.Bytes()
}

// ReadString fills the caller's buf from r and returns the byte count and
// whether r ran out before buf was full. The `readstring` operator reads
// the program source itself and does not call it.
func ReadString(r io.Reader, buf []byte) (int, bool, error) {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return n, true, nil
	case err != nil:
		return n, false, perrors.Wrap(err, perrors.IOError, "read failed")
	default:
		return n, false, nil
	}
}
