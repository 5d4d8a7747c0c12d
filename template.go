package ljdl

import (
	"fmt"
	"strings"
	"time"
)

// Templates shared with the download pipeline.
const (
	// FilenameTemplate names each downloaded file.
	FilenameTemplate = "{category}_{journal[username]}_{id}_{num}.{extension}"

	// ArchiveTemplate builds the key under which a post is archived.
	ArchiveTemplate = "{journal[username]}_{id}"

	// PostTemplate names the per-post metadata and text files, without extension.
	PostTemplate = "{category}_{journal[username]}_{id}"

	// DirectoryTemplate is the directory files are saved to, relative to the destination.
	DirectoryTemplate = "{category}/{journal[username]}"
)

// FormatTemplate replaces {name} and {name[key]} fields in tmpl with values
// from kw. Literal braces are written as {{ and }}.
// A field that is missing from kw is an EINVALID error.
func FormatTemplate(tmpl string, kw map[string]any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", Errorf(EINVALID, "unterminated field in template %q", tmpl)
			}
			field := tmpl[i+1 : i+end]
			v, err := lookupField(field, kw)
			if err != nil {
				return "", err
			}
			b.WriteString(formatValue(v))
			i += end
		case c == '}':
			return "", Errorf(EINVALID, "single '}' in template %q", tmpl)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func lookupField(field string, kw map[string]any) (any, error) {
	name, key, nested := strings.Cut(field, "[")
	v, ok := kw[name]
	if !ok {
		return nil, Errorf(EINVALID, "unknown template field %q", name)
	}
	if !nested {
		return v, nil
	}
	key, ok = strings.CutSuffix(key, "]")
	if !ok || key == "" {
		return nil, Errorf(EINVALID, "malformed template field %q", field)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Errorf(EINVALID, "template field %q is not a mapping", name)
	}
	inner, ok := m[key]
	if !ok {
		return nil, Errorf(EINVALID, "unknown template field %q", field)
	}
	return inner, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
