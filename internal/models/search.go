package models

// SearchQuery holds the trip search parameters entered by the visitor.
type SearchQuery struct {
	Origin      string `form:"origin" json:"origin"`
	Destination string `form:"destination" json:"destination"`
	Date        string `form:"date" json:"date"`
	Passengers  int    `form:"passengers" json:"passengers"`
	ReturnDate  string `form:"returnDate" json:"returnDate,omitempty"`
}

// RoundTrip reports whether the query asks for a return leg.
func (q *SearchQuery) RoundTrip() bool {
	return q.ReturnDate != ""
}

// SearchResult is the normalized outcome of a trip search: the upstream API
// answers either {departureTrips, returnTrips} or a flat array, and the
// client folds both shapes into this.
type SearchResult struct {
	Departure []Trip `json:"departureTrips"`
	Return    []Trip `json:"returnTrips"`
}
