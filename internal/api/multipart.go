package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// Form builds a multipart request body. Field-encoding matches what
// the backend's form parser expects, notably the bracketed location
// fields. The first error sticks and is returned from Close.
type Form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// Field appends a plain text field.
func (f *Form) Field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

// Bool appends a boolean field as "true"/"false".
func (f *Form) Bool(name string, value bool) {
	f.Field(name, strconv.FormatBool(value))
}

// Location appends the bracketed location fields. Coordinates go out
// in GeoJSON order: index 0 is longitude, index 1 latitude.
func (f *Form) Location(loc models.Location) {
	typ := loc.Type
	if typ == "" {
		typ = "Point"
	}
	f.Field("location[type]", typ)
	f.Field("location[coordinates][0]", strconv.FormatFloat(loc.Coordinates[0], 'f', -1, 64))
	f.Field("location[coordinates][1]", strconv.FormatFloat(loc.Coordinates[1], 'f', -1, 64))
	f.Field("location[address]", loc.Address)
	f.Field("location[city]", loc.City)
	f.Field("location[state]", loc.State)
}

// File appends a local file under the given field name.
func (f *Form) File(field, path string) {
	if f.err != nil {
		return
	}
	src, err := os.Open(path)
	if err != nil {
		f.err = err
		return
	}
	defer src.Close()

	part, err := f.w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		f.err = err
		return
	}
	_, f.err = io.Copy(part, src)
}

// Close finalizes the body and returns the first recorded error.
func (f *Form) Close() error {
	if f.err != nil {
		return f.err
	}
	return f.w.Close()
}

// ContentType returns the multipart content type with its boundary.
func (f *Form) ContentType() string { return f.w.FormDataContentType() }

// Reader returns the encoded body.
func (f *Form) Reader() io.Reader { return &f.buf }
