package handler

import "math/rand"

// MakePairs shuffles the participants and partitions them into pairs.
// When the count is odd the final three participants form one group of
// three instead of leaving someone alone. Callers must pass at least
// two participants. The input slice is not modified.
func MakePairs(users []string) [][]string {
	shuffled := make([]string, len(users))
	copy(shuffled, users)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var pairs [][]string
	for len(shuffled) > 0 {
		if len(shuffled) == 3 {
			pairs = append(pairs, shuffled)
			break
		}
		pairs = append(pairs, shuffled[:2])
		shuffled = shuffled[2:]
	}
	return pairs
}
