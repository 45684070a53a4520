// Package model defines the typed values exchanged between the form controller,
// its views and the prediction endpoint. Field identifiers double as the element
// ids of the page contract (`N`, `N-value`, `resultSection`, ...), so hosts that
// emit markup and hosts that prompt in a terminal address the same fields.
// Numeric measurements travel as float64 and must be finite; NewPredictionRequest
// is the only constructor that turns raw widget strings into a request.
package model
