package dom

import "strings"

// style is an ordered list of inline style declarations.
type style []Attribute

func parseStyle(s string) style {
	var st style
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		st.set(name, value)
	}
	return st
}

func (st style) get(property string) string {
	property = strings.ToLower(property)
	for _, d := range st {
		if d.Name == property {
			return d.Value
		}
	}
	return ""
}

func (st *style) set(property, value string) {
	property = strings.ToLower(property)
	for i, d := range *st {
		if d.Name != property {
			continue
		}
		if value == "" {
			*st = append((*st)[:i], (*st)[i+1:]...)
		} else {
			(*st)[i].Value = value
		}
		return
	}
	if value != "" {
		*st = append(*st, Attribute{Name: property, Value: value})
	}
}

func (st style) empty() bool {
	return len(st) == 0
}

func (st style) String() string {
	parts := make([]string, len(st))
	for i, d := range st {
		parts[i] = d.Name + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}
