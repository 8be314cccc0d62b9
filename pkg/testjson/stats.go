package testjson

// Stats holds aggregate counts across all packages of a stream.
type Stats struct {
	Passed     int
	Failed     int
	Skipped    int
	Packages   int
	FailedPkgs int
}

// Total returns the number of finished tests.
func (s Stats) Total() int {
	return s.Passed + s.Failed + s.Skipped
}
