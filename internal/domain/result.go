package domain

import "time"

// PriceStats summarizes the cheapest prices of successful lookups.
// Min, Max, Mean and Range are nil when Count is zero.
type PriceStats struct {
	Count    int      `json:"count"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	Range    *float64 `json:"range,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// OutcomeCounts separates lookups that answered without flights from lookups
// that failed.
type OutcomeCounts struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	NoOffers  int `json:"noOffers"`
}

// RouteStats holds statistics for a single route.
type RouteStats struct {
	Route  string        `json:"route"`
	Counts OutcomeCounts `json:"counts"`
	Stats  PriceStats    `json:"stats"`
}

// Deal is one entry of the best-deals list.
type Deal struct {
	Route       RouteSpec       `json:"route"`
	Combination DateCombination `json:"combination"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	Offer       Offer           `json:"offer"`
}

// DatePrice is the cheapest price seen for a calendar date.
type DatePrice struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// StayPrice is the cheapest price seen for a stay length.
type StayPrice struct {
	Stays int     `json:"stays"`
	Price float64 `json:"price"`
}

// Aggregate is the derived view of a batch.
//
// Matrix is nil when the successful outcomes do not cover at least two
// departure dates and two return dates; MatrixUnavailable then holds the reason.
type Aggregate struct {
	Matrix            *PriceMatrix  `json:"matrix,omitempty"`
	MatrixUnavailable string        `json:"matrixUnavailable,omitempty"`
	Stats             PriceStats    `json:"stats"`
	Counts            OutcomeCounts `json:"counts"`
	RouteStats        []RouteStats  `json:"routeStats"`
	Ranked            []Deal        `json:"ranked"`
	Calendar          []DatePrice   `json:"calendar"`
	ByStay            []StayPrice   `json:"byStay"`
}
