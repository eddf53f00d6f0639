// Package bigtwo implements the card model and hand rules of Big Two.
//
// Cards are ordered for play with 3 lowest and 2 highest, suits breaking
// ties (diamonds, clubs, hearts, spades). Classify maps 1, 2, 3 or 5 cards
// onto one of eight hand kinds and Beats decides whether one hand may
// replace another on the table:
//
//	cards := bigtwo.MustParseCards("3d 4d 5d 6d 7d")
//	kind, ok := bigtwo.Classify(cards) // StraightFlush, true
//
//	pair, _ := bigtwo.NewHand(0, bigtwo.MustParseCards("7d 7c"))
//	top, _ := bigtwo.NewHand(1, bigtwo.MustParseCards("5h 5s"))
//	ok, err := bigtwo.Beats(pair, top) // true, nil
//
// Turn order and move legality live in internal/game.
package bigtwo
