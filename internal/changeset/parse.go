package changeset

import (
	"strings"
)

// #region parse
// Parse turns line-oriented change text into records. Each path is announced
// by MODIFIED:, NEW: or DELETED: and owns the following +/- lines until the
// next announcement. Diff header lines (+++/---) and anything unrecognized are
// skipped, so Parse never fails.
func Parse(text string) []Record {
	var records []Record
	var current *Record

	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if kind, ok := announcement(line); ok {
			flush()
			current = &Record{Path: announcedPath(line), Kind: kind}
			continue
		}

		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			if current != nil {
				current.Added = append(current.Added, line[1:])
			}
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			if current != nil {
				current.Removed = append(current.Removed, line[1:])
			}
		}
	}
	flush()

	return records
}

// #endregion parse

// #region format
// Format renders records back into the change-text convention accepted by Parse.
func Format(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		kind := r.Kind
		if kind == "" {
			kind = KindModified
		}
		b.WriteString(string(kind))
		b.WriteString(": ")
		b.WriteString(r.Path)
		b.WriteByte('\n')
		for _, l := range r.Added {
			b.WriteByte('+')
			b.WriteString(l)
			b.WriteByte('\n')
		}
		for _, l := range r.Removed {
			b.WriteByte('-')
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// #endregion format

// #region helpers
func announcement(line string) (Kind, bool) {
	for _, k := range []Kind{KindModified, KindNew, KindDeleted} {
		if strings.HasPrefix(line, string(k)+":") {
			return k, true
		}
	}
	return "", false
}

// announcedPath returns the first token after the prefix, or "" when the
// announcement carries no path.
func announcedPath(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// #endregion helpers
