package specification

// MostRecentFirst orders chat turns newest first.
func MostRecentFirst() Specification {
	return OrderBy{Field: "timestamp", Desc: true}
}

// Chronological orders chat turns oldest first.
func Chronological() Specification {
	return OrderBy{Field: "timestamp"}
}
