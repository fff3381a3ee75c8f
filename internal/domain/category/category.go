// Package category normalizes the heterogeneous category payloads returned by
// the remote catalog. Depending on catalog version, GET /products/categories
// yields either plain strings or objects carrying some subset of
// {value, label, slug, name}; both shapes are flattened into Option values.
package category

import (
	"strings"
	"unicode"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Option is a uniform category choice: Value is the canonical filter key sent
// back to the catalog, Label is the display string.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// All is the sentinel category value that disables category filtering.
const All = "all"

// Normalize decodes a raw JSON array of categories into options, one per
// input element, preserving order. No de-duplication is performed.
func Normalize(data []byte) ([]Option, error) {
	d := jx.DecodeBytes(data)

	var opts []Option
	if err := d.Arr(func(d *jx.Decoder) error {
		o, err := normalizeElem(d)
		if err != nil {
			return err
		}
		opts = append(opts, o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return opts, nil
}

// normalizeElem maps a single category element to an Option.
//
// Strings map to {value: s, label: s}. Objects resolve the value through
// value -> slug -> name -> label -> raw JSON text, and the label through
// name -> label -> resolved value. Anything else (numbers, booleans, null)
// falls back to its raw JSON text for both fields.
func normalizeElem(d *jx.Decoder) (Option, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return Option{}, err
		}
		return Option{Value: s, Label: s}, nil

	case jx.Object:
		raw, err := d.Raw()
		if err != nil {
			return Option{}, err
		}
		return normalizeObject(raw)

	default:
		raw, err := d.Raw()
		if err != nil {
			return Option{}, err
		}
		s := string(raw)
		return Option{Value: s, Label: s}, nil
	}
}

func normalizeObject(raw jx.Raw) (Option, error) {
	var value, label, slug, name string
	obj := jx.DecodeBytes(raw)
	if err := obj.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		switch key {
		case "value":
			value = s
		case "label":
			label = s
		case "slug":
			slug = s
		case "name":
			name = s
		}
		return nil
	}); err != nil {
		return Option{}, err
	}

	v := firstNonEmpty(value, slug, name, label)
	if v == "" {
		v = string(raw)
	}
	l := firstNonEmpty(name, label)
	if l == "" {
		l = v
	}
	return Option{Value: v, Label: l}, nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// FormatLabel converts a raw category key such as a hyphen-delimited slug
// into a human-readable label: separators become spaces and each word is
// capitalized. Pure string transform, no error conditions.
func FormatLabel(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
