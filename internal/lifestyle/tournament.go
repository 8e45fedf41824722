package lifestyle

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNoParticipants       = errors.New("tournament needs at least one participant")
	ErrDuplicateParticipant = errors.New("duplicate tournament participant")
	ErrTournamentOver       = errors.New("tournament is over")
	ErrNotInMatch           = errors.New("category is not in the current match")
)

// Match is a pairing of two categories. Order does not matter.
type Match [2]CategoryKey

func (m Match) Equal(o Match) bool {
	return (m[0] == o[0] && m[1] == o[1]) || (m[0] == o[1] && m[1] == o[0])
}

func (m Match) Contains(k CategoryKey) bool {
	return m[0] == k || m[1] == k
}

// PairRound pairs consecutive participants (0,1), (2,3), ... An odd trailing
// participant is left out and advances on a bye.
func PairRound(participants []CategoryKey) []Match {
	matches := make([]Match, 0, len(participants)/2)
	for i := 0; i+1 < len(participants); i += 2 {
		matches = append(matches, Match{participants[i], participants[i+1]})
	}
	return matches
}

// Pick is one user choice together with the bracket round it was made in.
type Pick struct {
	Category CategoryKey `json:"category"`
	Round    int         `json:"round"`
}

// RoundOutcome describes what a single SelectWinner call did.
type RoundOutcome struct {
	Round         int         `json:"round"`
	Selected      CategoryKey `json:"selected"`
	RoundComplete bool        `json:"roundComplete"`
	Bye           CategoryKey `json:"bye,omitempty"`
	Finished      bool        `json:"finished"`
	Winner        CategoryKey `json:"winner,omitempty"`
	Next          *Match      `json:"next,omitempty"`
}

// Tournament is a single-elimination bracket over categories. It is not safe
// for concurrent use.
type Tournament struct {
	initial      []CategoryKey
	participants []CategoryKey
	winners      []CategoryKey
	picks        []Pick
	matches      []Match
	matchIndex   int
	round        int
	winner       CategoryKey
	done         bool
}

func NewTournament(keys []CategoryKey) (*Tournament, error) {
	if len(keys) == 0 {
		return nil, ErrNoParticipants
	}
	seen := make(map[CategoryKey]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, k)
		}
		seen[k] = struct{}{}
	}

	t := &Tournament{initial: slices.Clone(keys)}
	t.Restart()
	return t, nil
}

// Restart resets the bracket to the initial participants.
func (t *Tournament) Restart() {
	t.participants = slices.Clone(t.initial)
	t.winners = nil
	t.picks = nil
	t.round = 1
	t.winner = ""
	t.done = false
	t.startRound()
}

func (t *Tournament) startRound() {
	t.matches = PairRound(t.participants)
	t.matchIndex = 0
	if len(t.participants) == 1 {
		t.winner = t.participants[0]
		t.done = true
	}
}

// SelectWinner records the user's pick for the current match and advances
// the bracket.
func (t *Tournament) SelectWinner(selected CategoryKey) (RoundOutcome, error) {
	if t.done {
		return RoundOutcome{}, ErrTournamentOver
	}
	current := t.matches[t.matchIndex]
	if !current.Contains(selected) {
		return RoundOutcome{}, fmt.Errorf("%w: %q", ErrNotInMatch, selected)
	}

	out := RoundOutcome{Round: t.round, Selected: selected}

	t.picks = append(t.picks, Pick{Category: selected, Round: t.round})
	t.winners = append(t.winners, selected)

	idx := slices.IndexFunc(t.matches, current.Equal)
	if idx < len(t.matches)-1 {
		t.matchIndex = idx + 1
		next := t.matches[t.matchIndex]
		out.Next = &next
		return out, nil
	}

	out.RoundComplete = true
	if len(t.participants)%2 == 1 {
		bye := t.participants[len(t.participants)-1]
		t.winners = append(t.winners, bye)
		out.Bye = bye
	}

	if len(t.winners) == 1 {
		t.winner = t.winners[0]
		t.done = true
		out.Finished = true
		out.Winner = t.winner
		return out, nil
	}

	t.participants = t.winners
	t.winners = nil
	t.round++
	t.startRound()
	next := t.matches[0]
	out.Next = &next
	return out, nil
}

func (t *Tournament) Round() int { return t.round }

func (t *Tournament) Finished() bool { return t.done }

// Winner returns the terminal winner once the tournament is over.
func (t *Tournament) Winner() (CategoryKey, bool) {
	return t.winner, t.done
}

// CurrentMatch returns the match awaiting a pick.
func (t *Tournament) CurrentMatch() (Match, bool) {
	if t.done {
		return Match{}, false
	}
	return t.matches[t.matchIndex], true
}

// MatchIndex is the zero-based position of the current match in its round.
func (t *Tournament) MatchIndex() int { return t.matchIndex }

func (t *Tournament) Matches() []Match { return slices.Clone(t.matches) }

func (t *Tournament) Participants() []CategoryKey { return slices.Clone(t.participants) }

func (t *Tournament) Winners() []CategoryKey { return slices.Clone(t.winners) }

// History returns every pick in chronological order.
func (t *Tournament) History() []CategoryKey {
	h := make([]CategoryKey, len(t.picks))
	for i, p := range t.picks {
		h[i] = p.Category
	}
	return h
}

func (t *Tournament) Picks() []Pick { return slices.Clone(t.picks) }

// TournamentState is the serializable form of a Tournament.
type TournamentState struct {
	Initial      []CategoryKey `json:"initial"`
	Participants []CategoryKey `json:"participants"`
	Winners      []CategoryKey `json:"winners"`
	Picks        []Pick        `json:"picks"`
	MatchIndex   int           `json:"matchIndex"`
	Round        int           `json:"round"`
	Winner       CategoryKey   `json:"winner,omitempty"`
	Done         bool          `json:"done"`
}

func (t *Tournament) State() TournamentState {
	return TournamentState{
		Initial:      slices.Clone(t.initial),
		Participants: slices.Clone(t.participants),
		Winners:      slices.Clone(t.winners),
		Picks:        slices.Clone(t.picks),
		MatchIndex:   t.matchIndex,
		Round:        t.round,
		Winner:       t.winner,
		Done:         t.done,
	}
}

// RestoreTournament rebuilds a Tournament from a saved state.
func RestoreTournament(st TournamentState) (*Tournament, error) {
	if len(st.Initial) == 0 || len(st.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	if st.Round < 1 {
		return nil, fmt.Errorf("invalid round %d", st.Round)
	}
	t := &Tournament{
		initial:      slices.Clone(st.Initial),
		participants: slices.Clone(st.Participants),
		winners:      slices.Clone(st.Winners),
		picks:        slices.Clone(st.Picks),
		matches:      PairRound(st.Participants),
		matchIndex:   st.MatchIndex,
		round:        st.Round,
		winner:       st.Winner,
		done:         st.Done,
	}
	if !t.done && (t.matchIndex < 0 || t.matchIndex >= len(t.matches)) {
		return nil, fmt.Errorf("invalid match index %d", st.MatchIndex)
	}
	return t, nil
}
