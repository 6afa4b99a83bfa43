package schedule

// Interval is a half-open [Start, End) span of a day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether a and b share any instant.
// Intervals are half-open: one ending exactly when the other starts does not overlap it.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// FindConflict returns the first existing Entry clashing with candidate:
// an Entry on the same day, for the same class or the same teacher, whose time overlaps.
// The candidate itself (same ID) is skipped, so updates can be checked against their stored version.
func FindConflict(candidate Entry, existing []Entry) (Entry, bool) {
	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if e.Day != candidate.Day {
			continue
		}
		if e.ClassID != candidate.ClassID && e.TeacherID != candidate.TeacherID {
			continue
		}
		if Overlaps(candidate.Interval(), e.Interval()) {
			return e, true
		}
	}
	return Entry{}, false
}

// CheckConflict reports whether candidate clashes with any of existing.
func CheckConflict(candidate Entry, existing []Entry) bool {
	_, conflict := FindConflict(candidate, existing)
	return conflict
}

// conflictError names what the candidate clashes on, the class taking precedence.
func conflictError(candidate, clash Entry) error {
	if clash.ClassID == candidate.ClassID {
		return ErrClassConflict
	}
	return ErrTeacherConflict
}
