package bigtwo

// Classify determines which hand kind the cards form. The slice is sorted
// in place by play order; that is the only side effect. It returns false
// when the cards form no legal hand. Four cards never form a hand.
func Classify(cards []Card) (Kind, bool) {
	SortCards(cards)

	switch len(cards) {
	case 1:
		return Single, true
	case 2:
		if allSameRank(cards) {
			return Pair, true
		}
	case 3:
		if allSameRank(cards) {
			return Triple, true
		}
	case 5:
		return classifyFive(cards)
	}
	return Invalid, false
}

// classifyFive expects cards sorted by play order. The checks run in
// precedence order and the first match wins.
func classifyFive(cards []Card) (Kind, bool) {
	switch {
	case isStraightFlush(cards):
		return StraightFlush, true
	case isQuad(cards):
		return Quad, true
	case isFullHouse(cards):
		return FullHouse, true
	case isFlush(cards):
		return Flush, true
	case isStraight(cards):
		return Straight, true
	}
	return Invalid, false
}

func allSameRank(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Rank() != cards[0].Rank() {
			return false
		}
	}
	return true
}

func allSameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit() != cards[0].Suit() {
			return false
		}
	}
	return true
}

// consecutive reports whether sorted cards have rank values that step by
// exactly one, with A above K and 2 above A.
func consecutive(cards []Card) bool {
	for i := 1; i < len(cards); i++ {
		if cards[i].Rank().Value() != cards[i-1].Rank().Value()+1 {
			return false
		}
	}
	return true
}

func isStraight(cards []Card) bool {
	return len(cards) == 5 && consecutive(cards) && !allSameSuit(cards)
}

func isFlush(cards []Card) bool {
	return len(cards) == 5 && allSameSuit(cards)
}

func isStraightFlush(cards []Card) bool {
	return len(cards) == 5 && consecutive(cards) && allSameSuit(cards)
}

// isFullHouse checks for a 3+2 grouping; after sorting the triple is either
// the first three or the last three cards.
func isFullHouse(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	r := func(i int) Rank { return cards[i].Rank() }
	if r(0) == r(1) && r(1) == r(2) {
		return r(3) == r(4) && r(3) != r(0)
	}
	if r(2) == r(3) && r(3) == r(4) {
		return r(0) == r(1) && r(0) != r(2)
	}
	return false
}

// isQuad checks for a 4+1 grouping; the kicker sorts to either end.
func isQuad(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	return allSameRank(cards[0:4]) && cards[4].Rank() != cards[0].Rank() ||
		allSameRank(cards[1:5]) && cards[0].Rank() != cards[1].Rank()
}
