package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
)

// YAML returns a Source decoding the first YAML document of b.
func YAML(b []byte, opts ...Options) goshape.Source {
	return YAMLReader(bytes.NewReader(b), opts...)
}

// YAMLReader returns a Source decoding the next YAML document of r on each
// Decode call, so one reader can feed a multi-document stream.
func YAMLReader(r io.Reader, opts ...Options) goshape.Source {
	opt := lastOptions(opts)
	dec := yaml.NewDecoder(r)
	return goshape.SourceFunc(func() (any, error) {
		var root yaml.Node
		d := &yamlDecoder{walker: walker{opt: opt}}
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, d.fail("empty document")
			}
			return nil, d.fail(err.Error())
		}
		v, err := d.node(&root)
		if err != nil {
			return nil, err
		}
		return d.result(v)
	})
}

type yamlDecoder struct {
	walker
}

func (d *yamlDecoder) failAt(n *yaml.Node, msg string) error {
	return d.fail(fmt.Sprintf("line %d column %d: %s", n.Line, n.Column, msg))
}

func (d *yamlDecoder) node(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		return d.node(n.Alias)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		return d.sequence(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, d.failAt(n, err.Error())
		}
		return v, nil
	}
	return nil, d.failAt(n, "unsupported node")
}

func (d *yamlDecoder) mapping(n *yaml.Node) (any, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	defer d.close()
	m := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, d.failAt(k, "mapping key must be a scalar")
		}
		key := k.Value
		if _, dup := m[key]; dup {
			d.duplicate(key)
		}
		d.enter(key)
		v, err := d.node(vn)
		d.leave()
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
	return m, nil
}

func (d *yamlDecoder) sequence(n *yaml.Node) (any, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	defer d.close()
	out := make([]any, 0, len(n.Content))
	for i, c := range n.Content {
		d.enter(i)
		v, err := d.node(c)
		d.leave()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
