package main

import (
	"fmt"
	"strings"

	"github.com/lox/bigtwo/internal/game"
	"github.com/lox/bigtwo/internal/server"
)

// renderMessage formats a server message as one or more terminal lines
func renderMessage(msg *server.Message) (string, error) {
	switch msg.Type {
	case server.MessageTypeWelcome:
		var d server.WelcomeData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return fmt.Sprintf("joined table %s in seat %d (%d seated)", d.Table, d.Seat, len(d.Players)), nil

	case server.MessageTypeFull:
		var d server.FullData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return errorStyle.Render(fmt.Sprintf("table %s is full", d.Table)), nil

	case server.MessageTypePlayerJoined:
		var d server.PlayerJoinedData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s joined", seatLabel(d.Seat, d.Name)), nil

	case server.MessageTypePlayerLeft:
		var d server.PlayerLeftData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s left", seatLabel(d.Seat, d.Name)), nil

	case server.MessageTypePlayerReady:
		var d server.PlayerReadyData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return fmt.Sprintf("seat %d is ready", d.Seat), nil

	case server.MessageTypeGameStarted:
		var d server.GameStartedData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return kindStyle.Render("game "+d.GameID+" started") + fmt.Sprintf(", seat %d leads", d.FirstPlayer), nil

	case server.MessageTypeState:
		var d server.StateData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return renderState(d), nil

	case server.MessageTypeMove:
		var d server.MoveData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		if d.Pass || d.Hand == nil {
			return fmt.Sprintf("seat %d passes", d.Player), nil
		}
		line := fmt.Sprintf("seat %d plays %s %s", d.Player, kindStyle.Render(d.Hand.Kind.String()), renderCards(d.Hand.Cards))
		if d.CardsLeft > 0 {
			line += fmt.Sprintf(" (%d left)", d.CardsLeft)
		}
		return line, nil

	case server.MessageTypeMoveRejected:
		var d server.MoveRejectedData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return errorStyle.Render("move rejected: " + d.Message), nil

	case server.MessageTypeGameOver:
		var d server.GameOverData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return renderResults(d.Winner, d.Results), nil

	case server.MessageTypeGameAborted:
		var d server.GameAbortedData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return errorStyle.Render("game aborted: " + d.Reason), nil

	case server.MessageTypeChat:
		var d server.ChatBroadcastData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %s", seatLabel(d.Seat, d.Name), d.Text), nil

	case server.MessageTypeTurnTimeout:
		var d server.TurnTimeoutData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		if d.Passed {
			return fmt.Sprintf("seat %d ran out of time and passes", d.Seat), nil
		}
		return fmt.Sprintf("seat %d is taking too long", d.Seat), nil

	case server.MessageTypeError:
		var d server.ErrorData
		if err := msg.Decode(&d); err != nil {
			return "", err
		}
		return errorStyle.Render(fmt.Sprintf("error (%s): %s", d.Code, d.Message)), nil

	default:
		return fmt.Sprintf("unhandled message %s", msg.Type), nil
	}
}

func seatLabel(seat int, name string) string {
	return seatStyle.Render(fmt.Sprintf("%s [%d]", name, seat))
}

func renderState(d server.StateData) string {
	var b strings.Builder
	if d.TableTop != nil {
		fmt.Fprintf(&b, "table: %s %s from seat %d\n", kindStyle.Render(d.TableTop.Kind.String()), renderCards(d.TableTop.Cards), d.TableTop.Owner)
	} else {
		b.WriteString("table: empty\n")
	}

	counts := make([]string, len(d.CardCounts))
	for i, n := range d.CardCounts {
		counts[i] = fmt.Sprintf("%d:%d", i, n)
	}
	fmt.Fprintf(&b, "cards: %s\n", strings.Join(counts, " "))

	hand := make([]string, len(d.YourCards))
	for i, c := range d.YourCards {
		hand[i] = fmt.Sprintf("%d=%s", i, renderCard(c))
	}
	fmt.Fprintf(&b, "hand:  %s", strings.Join(hand, " "))

	if d.Phase == game.InProgress.String() {
		if d.ActivePlayer == d.YourSeat {
			b.WriteString("\n" + kindStyle.Render("your turn"))
		} else {
			fmt.Fprintf(&b, "\nwaiting for seat %d", d.ActivePlayer)
		}
	}
	return b.String()
}

func renderResults(winner int, results []game.PlayerResult) string {
	var b strings.Builder
	b.WriteString(kindStyle.Render(fmt.Sprintf("seat %d wins", winner)))
	for _, r := range results {
		fmt.Fprintf(&b, "\n  seat %d: %d cards left", r.Player, r.CardsLeft)
	}
	return b.String()
}
