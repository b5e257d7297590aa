// Package multipart decodes a multipart/form-data body that has already been
// read into memory. It works on the raw bytes plus the boundary token and does
// no I/O, so the submission handler can buffer, decode, and validate in
// separate steps.
package multipart

import (
	"bytes"
	"errors"
	"strings"
)

const defaultContentType = "application/octet-stream"

var (
	crlf     = []byte("\r\n")
	crlfcrlf = []byte("\r\n\r\n")
)

// File is the first part of the body that declared a filename. Later file
// parts are ignored: one receipt per submission is the contract.
type File struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

type Form struct {
	Fields map[string]string
	File   *File
}

var ErrNoBoundary = errors.New("multipart: empty boundary")

// Decode splits body on "--boundary" and collects every well-formed part.
// Parts without a Content-Disposition name and parts without a header/body
// separator are dropped. Empty field values are kept as empty strings.
func Decode(body []byte, boundary string) (*Form, error) {
	if boundary == "" {
		return nil, ErrNoBoundary
	}

	form := &Form{Fields: make(map[string]string)}

	segments := bytes.Split(body, []byte("--"+boundary))
	if len(segments) < 3 {
		return form, nil
	}

	// First segment is the preamble, last is the trailing "--".
	for _, seg := range segments[1 : len(segments)-1] {
		seg = bytes.TrimPrefix(seg, crlf)

		sep := bytes.Index(seg, crlfcrlf)
		if sep < 0 {
			continue
		}
		header := seg[:sep]
		value := bytes.TrimSuffix(seg[sep+len(crlfcrlf):], crlf)

		name, filename, contentType := parseHeader(header)
		if name == "" {
			continue
		}

		if filename == "" {
			form.Fields[name] = string(value)
			continue
		}

		if form.File != nil {
			continue
		}
		if contentType == "" {
			contentType = defaultContentType
		}
		form.File = &File{
			FieldName:   name,
			Filename:    filename,
			ContentType: contentType,
			Data:        value,
		}
	}

	return form, nil
}

func parseHeader(header []byte) (name, filename, contentType string) {
	for _, line := range strings.Split(string(header), "\r\n") {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "content-disposition":
			name = headerParam(rest, "name")
			filename = headerParam(rest, "filename")
		case "content-type":
			contentType = rest
		}
	}
	return name, filename, contentType
}

// headerParam pulls a quoted parameter such as name="receipt" out of a
// Content-Disposition value. Matching on the full attribute keeps "name"
// from matching inside "filename".
func headerParam(value, param string) string {
	for _, attr := range strings.Split(value, ";") {
		attr = strings.TrimSpace(attr)
		rest, ok := strings.CutPrefix(attr, param+`="`)
		if !ok {
			continue
		}
		if end := strings.Index(rest, `"`); end >= 0 {
			return rest[:end]
		}
	}
	return ""
}
