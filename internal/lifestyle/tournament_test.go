package lifestyle

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func keys(names ...string) []CategoryKey {
	out := make([]CategoryKey, len(names))
	for i, n := range names {
		out[i] = CategoryKey(n)
	}
	return out
}

func TestPairRound(t *testing.T) {
	tests := []struct {
		name string
		in   []CategoryKey
		want []Match
	}{
		{"empty", nil, []Match{}},
		{"single", keys("A"), []Match{}},
		{"even", keys("A", "B", "C", "D"), []Match{{"A", "B"}, {"C", "D"}}},
		{"odd", keys("A", "B", "C"), []Match{{"A", "B"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PairRound(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("PairRound(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchEqualIsSymmetric(t *testing.T) {
	a := Match{"A", "B"}
	if !a.Equal(Match{"B", "A"}) {
		t.Error("(A,B) should equal (B,A)")
	}
	if a.Equal(Match{"A", "C"}) {
		t.Error("(A,B) should not equal (A,C)")
	}
}

func TestEightCategoryBracket(t *testing.T) {
	tr, err := NewTournament(keys("A", "B", "C", "D", "E", "F", "G", "H"))
	if err != nil {
		t.Fatalf("NewTournament: %v", err)
	}

	wantRound1 := []Match{{"A", "B"}, {"C", "D"}, {"E", "F"}, {"G", "H"}}
	if got := tr.Matches(); !slices.Equal(got, wantRound1) {
		t.Fatalf("round 1 matches = %v, want %v", got, wantRound1)
	}

	for _, pick := range keys("B", "D", "F", "H") {
		if _, err := tr.SelectWinner(pick); err != nil {
			t.Fatalf("select %s: %v", pick, err)
		}
	}
	if tr.Round() != 2 {
		t.Fatalf("round = %d, want 2", tr.Round())
	}
	if got, want := tr.Participants(), keys("B", "D", "F", "H"); !slices.Equal(got, want) {
		t.Fatalf("round 2 participants = %v, want %v", got, want)
	}
	if got, want := tr.Matches(), []Match{{"B", "D"}, {"F", "H"}}; !slices.Equal(got, want) {
		t.Fatalf("round 2 matches = %v, want %v", got, want)
	}

	for _, pick := range keys("D", "H") {
		if _, err := tr.SelectWinner(pick); err != nil {
			t.Fatalf("select %s: %v", pick, err)
		}
	}
	if got, want := tr.Matches(), []Match{{"D", "H"}}; !slices.Equal(got, want) {
		t.Fatalf("round 3 matches = %v, want %v", got, want)
	}

	out, err := tr.SelectWinner("H")
	if err != nil {
		t.Fatalf("final select: %v", err)
	}
	if !out.Finished || out.Winner != "H" {
		t.Fatalf("outcome = %+v, want finished with winner H", out)
	}
	if w, ok := tr.Winner(); !ok || w != "H" {
		t.Fatalf("Winner() = %q, %v; want H, true", w, ok)
	}
	if got, want := tr.History(), keys("B", "D", "F", "H", "D", "H", "H"); !slices.Equal(got, want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
}

func TestSelectWinnerOutcome(t *testing.T) {
	tr, _ := NewTournament(keys("A", "B", "C", "D"))

	out, err := tr.SelectWinner("A")
	if err != nil {
		t.Fatal(err)
	}
	if out.RoundComplete || out.Next == nil || *out.Next != (Match{"C", "D"}) {
		t.Fatalf("outcome = %+v, want next match (C,D)", out)
	}

	out, err = tr.SelectWinner("D")
	if err != nil {
		t.Fatal(err)
	}
	if !out.RoundComplete || out.Round != 1 || out.Next == nil || *out.Next != (Match{"A", "D"}) {
		t.Fatalf("outcome = %+v, want round 1 complete with next (A,D)", out)
	}
}

func TestByeAdvancesOncePerRound(t *testing.T) {
	tr, _ := NewTournament(keys("A", "B", "C"))

	out, err := tr.SelectWinner("B")
	if err != nil {
		t.Fatal(err)
	}
	if out.Bye != "C" {
		t.Fatalf("bye = %q, want C", out.Bye)
	}
	if got, want := tr.Participants(), keys("B", "C"); !slices.Equal(got, want) {
		t.Fatalf("round 2 participants = %v, want %v", got, want)
	}

	out, err = tr.SelectWinner("C")
	if err != nil {
		t.Fatal(err)
	}
	if out.Bye != "" {
		t.Fatalf("unexpected bye %q in even round", out.Bye)
	}
	if !out.Finished || out.Winner != "C" {
		t.Fatalf("outcome = %+v, want C to win", out)
	}
	if got, want := tr.History(), keys("B", "C"); !slices.Equal(got, want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
}

func TestBracketTerminates(t *testing.T) {
	pool := keys("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K")

	for n := 1; n <= len(pool); n++ {
		for _, pickSecond := range []bool{false, true} {
			tr, err := NewTournament(pool[:n])
			if err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}

			maxRound := 1
			for steps := 0; !tr.Finished(); steps++ {
				if steps > 2*n {
					t.Fatalf("n=%d: tournament did not terminate", n)
				}
				m, _ := tr.CurrentMatch()
				pick := m[0]
				if pickSecond {
					pick = m[1]
				}
				out, err := tr.SelectWinner(pick)
				if err != nil {
					t.Fatalf("n=%d: select %s: %v", n, pick, err)
				}
				if len(tr.Winners()) > (len(tr.Participants())+1)/2 {
					t.Fatalf("n=%d: %d winners for %d participants", n, len(tr.Winners()), len(tr.Participants()))
				}
				maxRound = max(maxRound, out.Round)
			}

			winner, ok := tr.Winner()
			if !ok {
				t.Fatalf("n=%d: no winner", n)
			}
			if n == 1 {
				if winner != pool[0] || len(tr.History()) != 0 {
					t.Fatalf("n=1: winner %q history %v", winner, tr.History())
				}
				continue
			}

			wantRounds := int(math.Ceil(math.Log2(float64(n))))
			if maxRound != wantRounds {
				t.Errorf("n=%d: rounds = %d, want %d", n, maxRound, wantRounds)
			}
			if len(tr.History()) != n-1 {
				t.Errorf("n=%d: history length = %d, want %d", n, len(tr.History()), n-1)
			}
			if !slices.Contains(tr.History(), winner) {
				t.Errorf("n=%d: winner %q never picked", n, winner)
			}
		}
	}
}

func TestTournamentErrors(t *testing.T) {
	if _, err := NewTournament(nil); !errors.Is(err, ErrNoParticipants) {
		t.Errorf("empty: err = %v, want ErrNoParticipants", err)
	}
	if _, err := NewTournament(keys("A", "B", "A")); !errors.Is(err, ErrDuplicateParticipant) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateParticipant", err)
	}

	tr, _ := NewTournament(keys("A", "B"))
	if _, err := tr.SelectWinner("C"); !errors.Is(err, ErrNotInMatch) {
		t.Errorf("outsider: err = %v, want ErrNotInMatch", err)
	}
	if len(tr.History()) != 0 {
		t.Errorf("rejected pick changed history: %v", tr.History())
	}

	if _, err := tr.SelectWinner("A"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.SelectWinner("A"); !errors.Is(err, ErrTournamentOver) {
		t.Errorf("after final: err = %v, want ErrTournamentOver", err)
	}
}

func TestRestart(t *testing.T) {
	tr, _ := NewTournament(keys("A", "B", "C", "D"))
	tr.SelectWinner("A")
	tr.SelectWinner("C")
	tr.SelectWinner("C")

	tr.Restart()

	if tr.Finished() || tr.Round() != 1 || len(tr.History()) != 0 {
		t.Fatalf("after restart: finished=%v round=%d history=%v", tr.Finished(), tr.Round(), tr.History())
	}
	if m, _ := tr.CurrentMatch(); m != (Match{"A", "B"}) {
		t.Fatalf("current match = %v, want (A,B)", m)
	}
}

func TestStateRoundTrip(t *testing.T) {
	tr, _ := NewTournament(keys("A", "B", "C", "D", "E"))
	tr.SelectWinner("B")

	restored, err := RestoreTournament(tr.State())
	if err != nil {
		t.Fatalf("RestoreTournament: %v", err)
	}

	for _, pick := range keys("D", "D", "E") {
		a, errA := tr.SelectWinner(pick)
		b, errB := restored.SelectWinner(pick)
		if errA != nil || errB != nil {
			t.Fatalf("select %s: %v / %v", pick, errA, errB)
		}
		if a.Finished != b.Finished || a.Round != b.Round {
			t.Fatalf("outcomes diverged: %+v vs %+v", a, b)
		}
	}
	if !slices.Equal(tr.History(), restored.History()) {
		t.Fatalf("history %v vs %v", tr.History(), restored.History())
	}
}

func TestRestoreRejectsBadState(t *testing.T) {
	tests := []struct {
		name string
		st   TournamentState
	}{
		{"empty", TournamentState{}},
		{"zero round", TournamentState{Initial: keys("A", "B"), Participants: keys("A", "B")}},
		{"match index", TournamentState{Initial: keys("A", "B"), Participants: keys("A", "B"), Round: 1, MatchIndex: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RestoreTournament(tt.st); err == nil {
				t.Error("expected error")
			}
		})
	}
}
