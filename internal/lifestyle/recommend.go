package lifestyle

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

const maxRecommendations = 3

// Weighting selects how a pick's round number is derived when history
// bonuses are applied.
type Weighting int

const (
	// WeightByPickPairs assumes two picks per round: round = i/2 + 1.
	WeightByPickPairs Weighting = iota
	// WeightByBracketRound uses the round the pick was actually made in.
	WeightByBracketRound
)

func (w Weighting) String() string {
	switch w {
	case WeightByBracketRound:
		return "bracket-round"
	default:
		return "pick-pairs"
	}
}

func (w *Weighting) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "pick-pairs":
		*w = WeightByPickPairs
	case "bracket-round":
		*w = WeightByBracketRound
	default:
		return fmt.Errorf("unknown round weighting %q", b)
	}
	return nil
}

type Recommendation struct {
	Entity  EntityCode `json:"entity"`
	Name    string     `json:"name"`
	Score   int        `json:"score"`
	Reason  string     `json:"reason"`
	Image   string     `json:"image"`
	Curated bool       `json:"curated"`
}

type Recommender struct {
	catalog   *Catalog
	weighting Weighting
}

func NewRecommender(catalog *Catalog, weighting Weighting) *Recommender {
	return &Recommender{catalog: catalog, weighting: weighting}
}

// Recommend ranks destinations for the winning category, boosted by every
// category picked along the way. The result holds at most three entries;
// the top one is normalized to 100. An unknown winning category yields an
// empty list.
func (r *Recommender) Recommend(winning CategoryKey, history []Pick, locale string) []Recommendation {
	c := r.catalog
	if !c.hasScores(winning) {
		return []Recommendation{}
	}

	order := r.entityOrder(winning)
	totals := make(map[EntityCode]int, len(order))
	for _, code := range order {
		totals[code] = c.scores[winning][code]
	}

	for i, p := range history {
		row, ok := c.scores[p.Category]
		if !ok {
			continue
		}
		weight := 1 + float64(r.roundOf(i, p))*0.1
		for _, code := range order {
			totals[code] += int(math.Round(float64(row[code]) * 0.1 * weight))
		}
	}

	slices.SortStableFunc(order, func(a, b EntityCode) int {
		return cmp.Compare(totals[b], totals[a])
	})
	order = order[:min(maxRecommendations, len(order))]

	maxScore := 100.0
	if len(order) > 0 && totals[order[0]] > 0 {
		maxScore = float64(totals[order[0]])
	}

	curated := c.Curated(winning)
	recs := make([]Recommendation, 0, len(order))
	for _, code := range order {
		e, _ := c.Entity(code)
		rec := Recommendation{
			Entity: code,
			Name:   e.Names.In(locale),
			Score:  int(math.Round(float64(totals[code]) / maxScore * 100)),
			Reason: c.fallbackReason.In(locale),
			Image:  e.Image,
		}
		if i := slices.IndexFunc(curated, func(p CuratedPick) bool { return p.Entity == code }); i >= 0 {
			rec.Reason = curated[i].Reason.In(locale)
			rec.Curated = true
			if curated[i].Image != "" {
				rec.Image = curated[i].Image
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

func (r *Recommender) roundOf(i int, p Pick) int {
	if r.weighting == WeightByBracketRound && p.Round > 0 {
		return p.Round
	}
	return i/2 + 1
}

// entityOrder lists the curated picks of the category first, then the rest
// of the catalog. Ties keep this order.
func (r *Recommender) entityOrder(winning CategoryKey) []EntityCode {
	order := make([]EntityCode, 0, len(r.catalog.entities))
	for _, p := range r.catalog.Curated(winning) {
		order = append(order, p.Entity)
	}
	for _, e := range r.catalog.entities {
		if !slices.Contains(order, e.Code) {
			order = append(order, e.Code)
		}
	}
	return order
}
