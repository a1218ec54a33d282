package model

import "time"

// Fixture is an upcoming match found by discovery
type Fixture struct {
	Identifier   string    `json:"match"` // "Home - Away"
	League       string    `json:"league"`
	CommenceTime time.Time `json:"commence_time,omitempty"`
}

// Score is one side's score in a results feed record
type Score struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// Game is a record from the results feed
type Game struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Scores       []Score   `json:"scores"`
}

// Event is an upcoming game from the events feed
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}
