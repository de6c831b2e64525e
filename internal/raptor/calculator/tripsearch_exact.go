package calculator

// exactMatchSearch only accepts a trip when it can be boarded within slack
// seconds of the time limit. In a range search the first round of every
// minute after the first uses it, so each of those minutes boards only
// trips the minutes already run could not reach.
type exactMatchSearch struct {
	calc     Calculator
	delegate TripSearch
	slack    int
}

func newExactMatchSearch(calc Calculator, delegate TripSearch, slack int) *exactMatchSearch {
	return &exactMatchSearch{calc: calc, delegate: delegate, slack: slack}
}

func (s *exactMatchSearch) Search(timeLimit, stopPos int) (TripSearchResult, bool) {
	result, ok := s.delegate.Search(timeLimit, stopPos)
	if !ok || !s.isExactMatch(timeLimit, result.Time) {
		return TripSearchResult{}, false
	}
	return result, true
}

func (s *exactMatchSearch) isExactMatch(timeLimit, tripTime int) bool {
	return s.calc.Duration(timeLimit, tripTime) < s.slack
}
