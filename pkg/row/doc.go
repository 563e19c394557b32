// Package row defines the open-ended record used by the merge core.
//
// A Row is an ordered set of named fields. Each field holds a Value, a small
// tagged union of null, number and string. Key fields (name, date) are
// usually strings; metric fields (issues, stars, ...) are numbers.
//
// Field order is the order in which fields were set and is carried through
// the JSON and YAML codecs, so serialized column order never depends on map
// iteration.
//
// Example:
//
//	r := row.New(
//	    row.F("name", "Go"),
//	    row.F("date", "2020Q1"),
//	    row.F("stars", 1200),
//	)
//	stars, _ := r.Get("stars")
//	fmt.Println(stars.Float()) // 1200
//
// Absent metrics are zero. Project and NumberOrZero are the two places that
// rule is applied.
package row
