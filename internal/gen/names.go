package gen

import "strings"

// exportName turns a schema or path name into an exported Go identifier:
// "joinedAt" -> "JoinedAt", "post_id" -> "PostID", "blog" -> "Blog".
func exportName(name string) string {
	parts := splitWords(name)
	for i, p := range parts {
		switch upper := strings.ToUpper(p); upper {
		case "ID", "URL", "API", "HTTP":
			parts[i] = upper
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// splitWords breaks an identifier on underscores, hyphens, and lower-to-upper
// camel boundaries.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			flush()
		case r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z':
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	if len(words) == 0 {
		return []string{"X"}
	}
	return words
}
