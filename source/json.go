package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
)

// JSON returns a Source decoding one JSON document from b.
func JSON(b []byte, opts ...Options) goshape.Source {
	return JSONReader(bytes.NewReader(b), opts...)
}

// JSONReader returns a Source decoding one JSON document from r. The
// reader is consumed on the first Decode.
func JSONReader(r io.Reader, opts ...Options) goshape.Source {
	opt := lastOptions(opts)
	return goshape.SourceFunc(func() (any, error) {
		dec := gojson.NewDecoder(r)
		dec.UseNumber()
		d := &jsonDecoder{dec: dec, walker: walker{opt: opt}}
		return d.document()
	})
}

type jsonDecoder struct {
	dec *gojson.Decoder
	walker
}

func (d *jsonDecoder) document() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, d.fail("empty document")
		}
		return nil, d.fail(err.Error())
	}
	v, err := d.value(tok)
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, d.fail("unexpected data after top-level value")
	}
	return d.result(v)
}

func (d *jsonDecoder) next() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, d.fail("unexpected end of input")
		}
		return nil, d.fail(err.Error())
	}
	return tok, nil
}

func (d *jsonDecoder) value(tok any) (any, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
		return nil, d.fail("unexpected delimiter " + t.String())
	case gojson.Number:
		if d.opt.Float64 {
			f, err := t.Float64()
			if err != nil {
				return nil, d.fail(err.Error())
			}
			return f, nil
		}
		return json.Number(string(t)), nil
	case float64:
		return t, nil
	case string, bool, nil:
		return t, nil
	}
	return nil, d.fail("unexpected token")
}

func (d *jsonDecoder) object() (any, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	defer d.close()
	m := map[string]any{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(gojson.Delim); ok && delim == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, d.fail("object key must be a string")
		}
		if _, dup := m[key]; dup {
			d.duplicate(key)
		}
		vt, err := d.next()
		if err != nil {
			return nil, err
		}
		d.enter(key)
		v, err := d.value(vt)
		d.leave()
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func (d *jsonDecoder) array() (any, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	defer d.close()
	out := []any{}
	for i := 0; ; i++ {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(gojson.Delim); ok && delim == ']' {
			return out, nil
		}
		d.enter(i)
		v, err := d.value(tok)
		d.leave()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
