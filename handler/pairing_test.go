package handler

import (
	"fmt"
	"sort"
	"testing"
)

func TestMakePairs(t *testing.T) {
	for n := 2; n <= 11; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			users := make([]string, n)
			for i := range users {
				users[i] = fmt.Sprintf("U%02d", i)
			}

			pairs := MakePairs(users)

			triples := 0
			var flattened []string
			for _, pair := range pairs {
				switch len(pair) {
				case 2:
				case 3:
					triples++
				default:
					t.Errorf("group of size %d, want 2 or 3", len(pair))
				}
				flattened = append(flattened, pair...)
			}

			wantTriples := n % 2
			if triples != wantTriples {
				t.Errorf("got %d triples, want %d for n=%d", triples, wantTriples, n)
			}

			// Every participant appears exactly once.
			if len(flattened) != n {
				t.Fatalf("groups cover %d users, want %d", len(flattened), n)
			}
			sort.Strings(flattened)
			for i, user := range flattened {
				if want := fmt.Sprintf("U%02d", i); user != want {
					t.Errorf("flattened[%d] = %s, want %s", i, user, want)
				}
			}
		})
	}
}

func TestMakePairsDoesNotMutateInput(t *testing.T) {
	users := []string{"U00", "U01", "U02", "U03", "U04"}
	MakePairs(users)
	for i, user := range users {
		if want := fmt.Sprintf("U%02d", i); user != want {
			t.Fatalf("input mutated: users[%d] = %s, want %s", i, user, want)
		}
	}
}
