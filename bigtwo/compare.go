package bigtwo

// Beats reports whether challenger may replace incumbent on the table.
//
// Hands of different sizes never beat each other. Within one, two and three
// cards the size fixes the kind, so only top cards are compared. Five-card
// hands of different kinds are decided by kind strength alone; hands of the
// same kind by their top cards. Comparing a zero Hand is a caller error.
func Beats(challenger, incumbent Hand) (bool, error) {
	if challenger.IsZero() || incumbent.IsZero() {
		return false, ErrUnclassifiedHand
	}

	if challenger.Len() != incumbent.Len() {
		return false, nil
	}

	switch challenger.Len() {
	case 1, 2, 3:
		return Compare(challenger.TopCard(), incumbent.TopCard()) > 0, nil
	case 4:
		// No four-card kind exists; Classify never produces one.
		return false, nil
	case 5:
		if challenger.Kind() != incumbent.Kind() {
			return challenger.Kind().Strength() > incumbent.Kind().Strength(), nil
		}
		return beatsSameKind(challenger, incumbent), nil
	}
	return false, nil
}

func beatsSameKind(challenger, incumbent Hand) bool {
	ct, it := challenger.TopCard(), incumbent.TopCard()
	if challenger.Kind() == Flush && ct.Rank() == it.Rank() {
		return ct.Suit() > it.Suit()
	}
	return Compare(ct, it) > 0
}
