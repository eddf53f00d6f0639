// Package statistics accumulates results of finished games at a table.
package statistics

import (
	"fmt"
	"math"

	"github.com/lox/bigtwo/internal/game"
)

// SeatStats tracks results for one seat across games
type SeatStats struct {
	Games  int
	Wins   int
	Sum    int // cards left at the end of each game
	SumSq  int
	Max    int
	values []int
}

// Add incorporates one game's result for this seat
func (s *SeatStats) Add(r game.PlayerResult) {
	s.Games++
	if r.Winner {
		s.Wins++
	}
	s.Sum += r.CardsLeft
	s.SumSq += r.CardsLeft * r.CardsLeft
	s.Max = max(s.Max, r.CardsLeft)
	s.values = append(s.values, r.CardsLeft)
}

// Mean returns the average number of cards left when a game ended
func (s *SeatStats) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Games)
}

// Variance returns the sample variance of cards left
func (s *SeatStats) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (float64(s.SumSq) - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of cards left
func (s *SeatStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// WinRate returns the fraction of games this seat won
func (s *SeatStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// Statistics aggregates every game played at one table. It is not safe for
// concurrent use; the table goroutine owns it.
type Statistics struct {
	Games   int
	Aborted int
	Moves   int
	Passes  int
	Seats   [game.Seats]SeatStats
}

// AddMove counts an accepted move
func (s *Statistics) AddMove(m game.Move) {
	s.Moves++
	if m.Pass {
		s.Passes++
	}
}

// AddGame records the results of a finished game. Results must list every
// seat exactly once.
func (s *Statistics) AddGame(results []game.PlayerResult) error {
	if len(results) != game.Seats {
		return fmt.Errorf("expected %d results, got %d", game.Seats, len(results))
	}
	var seen [game.Seats]bool
	winners := 0
	for _, r := range results {
		if r.Player < 0 || r.Player >= game.Seats || seen[r.Player] {
			return fmt.Errorf("bad or repeated seat %d in results", r.Player)
		}
		seen[r.Player] = true
		if r.Winner {
			winners++
		}
	}
	if winners != 1 {
		return fmt.Errorf("expected one winner, got %d", winners)
	}

	s.Games++
	for _, r := range results {
		s.Seats[r.Player].Add(r)
	}
	return nil
}

// AddAbort counts a game that was abandoned before it finished
func (s *Statistics) AddAbort() {
	s.Aborted++
}

// SeatSummary is the reportable form of SeatStats
type SeatSummary struct {
	Seat          int     `json:"seat"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"winRate"`
	MeanCardsLeft float64 `json:"meanCardsLeft"`
	StdDev        float64 `json:"stdDev"`
	MaxCardsLeft  int     `json:"maxCardsLeft"`
}

// Summary is a point-in-time copy of a table's statistics
type Summary struct {
	Games   int           `json:"games"`
	Aborted int           `json:"aborted"`
	Moves   int           `json:"moves"`
	Passes  int           `json:"passes"`
	Seats   []SeatSummary `json:"seats"`
}

// Summary returns a copy suitable for reporting
func (s *Statistics) Summary() Summary {
	out := Summary{
		Games:   s.Games,
		Aborted: s.Aborted,
		Moves:   s.Moves,
		Passes:  s.Passes,
		Seats:   make([]SeatSummary, game.Seats),
	}
	for i := range s.Seats {
		seat := &s.Seats[i]
		out.Seats[i] = SeatSummary{
			Seat:          i,
			Wins:          seat.Wins,
			WinRate:       seat.WinRate(),
			MeanCardsLeft: seat.Mean(),
			StdDev:        seat.StdDev(),
			MaxCardsLeft:  seat.Max,
		}
	}
	return out
}
