// Package game runs the turn state machine of a Big Two table.
//
// An Engine moves through NotStarted, InProgress and Ended. Start takes four
// dealt 13-card hands and gives the first turn to the holder of the 3♦.
// SubmitMove then accepts or rejects one move at a time:
//
//	e := game.NewEngine()
//	if err := e.Start(bigtwo.NewShuffledDeck(rng).Deal()); err != nil {
//	    return err
//	}
//	move, err := e.SubmitMove(e.ActivePlayer(), []int{0}) // play lowest card
//	if reason, ok := game.IsIllegalMove(err); ok {
//	    // tell the player, state is unchanged
//	}
//
// # Rules enforced
//
//   - Only the active player may move.
//   - The opening hand must contain the 3♦.
//   - Every later hand must beat the table-top hand, unless the mover
//     played that hand and everyone else passed.
//   - Passing is not allowed on an empty table or on your own hand.
//   - The game ends when a player has no cards left.
//
// # Errors
//
// Rejected moves return a *MoveError wrapping ErrIllegalMove. Malformed
// deals return a *ConfigError wrapping ErrConfiguration, and calls made in
// the wrong phase return a *UsageError wrapping ErrUsage.
//
// The engine never logs. Every outcome is also published on its EventBus
// so a table server or display can follow the game.
package game
