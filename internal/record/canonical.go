package record

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical encodes v in canonical JSON.
//
// Supported values: string, bool, int, int64, float64, time.Time,
// []any, []string, []int, map[string]any, and the record types of this
// package (via their Canonical methods).
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Canonicaler is implemented by values that can describe themselves as a
// canonical JSON tree.
type Canonicaler interface {
	Canonical() map[string]any
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		writeCanonicalString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("non-finite float is forbidden in canonical JSON: %v", val)
		}
		if val == 0 {
			// Normalise -0.
			val = 0
		}
		buf.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case time.Time:
		writeCanonicalString(buf, FormatTime(val))
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, s)
		}
		buf.WriteByte(']')
	case []int:
		buf.WriteByte('[')
		for i, n := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(n))
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		return writeCanonicalObject(buf, val)
	case Canonicaler:
		return writeCanonicalObject(buf, val.Canonical())
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeCanonicalString escapes only quote, backslash and control characters.
// HTML characters and U+2028/U+2029 are written literally.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units, which differs from Go's
// byte-wise ordering for characters outside the BMP.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// FormatTime renders t as RFC 3339 with nanoseconds in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Canonical implements Canonicaler.
func (e AlignmentEvent) Canonical() map[string]any {
	m := map[string]any{
		"id":          e.ID,
		"occurred_at": e.OccurredAt,
		"completed":   e.Completed,
	}
	if len(e.GoalIDs) > 0 {
		ids := slices.Clone(e.GoalIDs)
		slices.Sort(ids)
		m["goal_ids"] = ids
	}
	return m
}

// Canonical implements Canonicaler.
func (g Goal) Canonical() map[string]any {
	m := map[string]any{
		"id":          g.ID,
		"created_at":  g.CreatedAt,
		"is_archived": g.IsArchived,
		"category":    string(g.Category),
		"is_primary":  g.IsPrimary,
	}
	if g.Title != "" {
		m["title"] = g.Title
	}
	if g.TargetDate != nil {
		m["target_date"] = *g.TargetDate
	}
	return m
}

// Canonical implements Canonicaler.
func (s JournalSession) Canonical() map[string]any {
	m := map[string]any{
		"id":        s.ID,
		"date":      s.Date,
		"category":  string(s.Category),
		"completed": s.Completed,
	}
	if s.InterestID != "" {
		m["interest_id"] = s.InterestID
	}
	if s.ProgressScore != nil {
		m["progress_score"] = *s.ProgressScore
	}
	return m
}

// Canonical implements Canonicaler.
func (ti TrackedInterest) Canonical() map[string]any {
	m := map[string]any{
		"id":            ti.ID,
		"current_level": ti.CurrentLevel,
		"weekly_scores": append([]int{}, ti.WeeklyScores...),
	}
	if ti.Name != "" {
		m["name"] = ti.Name
	}
	return m
}

// Canonical implements Canonicaler.
func (u UnlockedMilestone) Canonical() map[string]any {
	return map[string]any{
		"milestone_id": u.MilestoneID,
		"unlocked_at":  u.UnlockedAt,
	}
}
