package redis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/unifiedui/cache-service/internal/core/cache"
)

// maxWalkDepth bounds the invalid UTF-8 check on self-referencing values.
const maxWalkDepth = 1000

var (
	errInvalidUTF8 = errors.New("malformed UTF-8 characters, possibly incorrectly encoded")
	numericPattern = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?[ \t\n\r\v\f]*$`)
)

// encodeJSON encodes v honoring opts. HTML characters are never escaped.
func encodeJSON(v interface{}, opts cache.JSONOptions) ([]byte, error) {
	if !opts.SubstituteInvalidUTF8 {
		if err := checkUTF8(reflect.ValueOf(v), 0); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	raw := bytes.TrimRight(buf.Bytes(), "\n")

	if !opts.NumericCheck && opts.UnescapedUnicode && opts.UnescapedSlashes {
		return raw, nil
	}
	return rewriteJSON(raw, opts)
}

type jsonFrame struct {
	object bool
	count  int
}

// rewriteJSON re-emits compact JSON token by token, applying the numeric
// check and escaping rules that encoding/json does not offer.
func rewriteJSON(raw []byte, opts cache.JSONOptions) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out bytes.Buffer
	out.Grow(len(raw))
	var stack []jsonFrame

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			stack = stack[:len(stack)-1]
			out.WriteByte(byte(d))
			if n := len(stack); n > 0 {
				stack[n-1].count++
			}
			continue
		}

		isKey := false
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			switch {
			case top.object && top.count%2 == 0:
				isKey = true
				if top.count > 0 {
					out.WriteByte(',')
				}
			case top.object:
				out.WriteByte(':')
			case top.count > 0:
				out.WriteByte(',')
			}
		}

		switch t := tok.(type) {
		case json.Delim:
			out.WriteByte(byte(t))
			stack = append(stack, jsonFrame{object: t == '{'})
			continue
		case string:
			if opts.NumericCheck && !isKey {
				if num, ok := numericString(t); ok {
					out.WriteString(num)
					break
				}
			}
			writeJSONString(&out, t, opts)
		case json.Number:
			out.WriteString(t.String())
		case bool:
			out.WriteString(strconv.FormatBool(t))
		case nil:
			out.WriteString("null")
		}

		if n := len(stack); n > 0 {
			stack[n-1].count++
		}
	}

	return out.Bytes(), nil
}

// numericString returns the JSON number for a numeric string.
func numericString(s string) (string, bool) {
	if !numericPattern.MatchString(s) {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", false
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func writeJSONString(buf *bytes.Buffer, s string, opts cache.JSONOptions) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		case r == '/' && !opts.UnescapedSlashes:
			buf.WriteString(`\/`)
		case r == '\u2028' || r == '\u2029':
			fmt.Fprintf(buf, `\u%04x`, r)
		case r >= utf8.RuneSelf && !opts.UnescapedUnicode:
			if r > 0xFFFF {
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
			} else {
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func checkUTF8(v reflect.Value, depth int) error {
	if !v.IsValid() || depth > maxWalkDepth {
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return errInvalidUTF8
		}
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			return checkUTF8(v.Elem(), depth+1)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkUTF8(iter.Key(), depth+1); err != nil {
				return err
			}
			if err := checkUTF8(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		// []byte is written as base64.
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkUTF8(v.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := checkUTF8(v.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
