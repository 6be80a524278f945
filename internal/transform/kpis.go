package transform

import (
	"sort"

	"github.com/spacesedan/reviewflow/internal/models"
)

// JoinVerdicts left-joins verdicts onto the extracted rows by item_id. Every
// input row appears exactly once; rows without a verdict (which Analyze never
// produces, but the join does not assume that) carry a nil sentiment.
func JoinVerdicts(rows []models.ReviewRow, verdicts []models.Verdict) []models.EnrichedRow {
	byID := make(map[int]*bool, len(verdicts))
	for _, v := range verdicts {
		byID[v.ItemID] = v.Sentiment
	}

	enriched := make([]models.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		enriched = append(enriched, models.EnrichedRow{
			ReviewRow: row,
			Sentiment: byID[row.ItemID],
		})
	}
	return enriched
}

type groupAccum struct {
	priceSum float64
	count    int
	positive int
	negative int
}

func (g *groupAccum) add(row models.EnrichedRow) {
	g.priceSum += row.Price
	g.count++
	if row.Sentiment != nil {
		if *row.Sentiment {
			g.positive++
		} else {
			g.negative++
		}
	}
}

func (g *groupAccum) mean() float64 {
	return g.priceSum / float64(g.count)
}

// likeness is positive / max(negative, 1); the floor avoids division by zero
// and maps "no negatives" to the positive count as-is.
func (g *groupAccum) likeness() float64 {
	den := g.negative
	if den < 1 {
		den = 1
	}
	return float64(g.positive) / float64(den)
}

func accumulate(rows []models.EnrichedRow, key func(models.EnrichedRow) string) (map[string]*groupAccum, []string) {
	groups := make(map[string]*groupAccum)
	var order []string
	for _, row := range rows {
		k := key(row)
		acc, ok := groups[k]
		if !ok {
			acc = &groupAccum{}
			groups[k] = acc
			order = append(order, k)
		}
		acc.add(row)
	}
	// Deterministic output: same frame in, byte-identical KPI rows out.
	sort.Strings(order)
	return groups, order
}

// GenerateShopKPIs aggregates the enriched frame by shop.
func GenerateShopKPIs(rows []models.EnrichedRow) []models.ShopKPI {
	groups, order := accumulate(rows, func(r models.EnrichedRow) string { return r.ShopID })

	kpis := make([]models.ShopKPI, 0, len(order))
	scores := make([]float64, 0, len(order))
	for _, shopID := range order {
		acc := groups[shopID]
		kpis = append(kpis, models.ShopKPI{
			ShopID:          shopID,
			AverageProfit:   acc.mean(),
			PositiveReviews: acc.positive,
			NegativeReviews: acc.negative,
			LikenessScore:   acc.likeness(),
		})
		scores = append(scores, acc.likeness())
	}

	normalized := minMaxNormalize(scores)
	for i := range kpis {
		kpis[i].NormalizedLikenessScore = normalized[i]
	}
	return kpis
}

// GenerateUserKPIs aggregates the enriched frame by user.
func GenerateUserKPIs(rows []models.EnrichedRow) []models.UserKPI {
	groups, order := accumulate(rows, func(r models.EnrichedRow) string { return r.UserID })

	kpis := make([]models.UserKPI, 0, len(order))
	scores := make([]float64, 0, len(order))
	for _, userID := range order {
		acc := groups[userID]
		kpis = append(kpis, models.UserKPI{
			UserID:          userID,
			AverageSpent:    acc.mean(),
			PositiveReviews: acc.positive,
			NegativeReviews: acc.negative,
			LikenessScore:   acc.likeness(),
		})
		scores = append(scores, acc.likeness())
	}

	normalized := minMaxNormalize(scores)
	for i := range kpis {
		kpis[i].NormalizedLikenessScore = normalized[i]
	}
	return kpis
}

// GenerateDateKPIs aggregates daily average revenue.
func GenerateDateKPIs(rows []models.EnrichedRow) []models.DateKPI {
	groups, order := accumulate(rows, func(r models.EnrichedRow) string { return r.Date })

	kpis := make([]models.DateKPI, 0, len(order))
	for _, date := range order {
		kpis = append(kpis, models.DateKPI{
			Date:                date,
			AverageProfitPerDay: groups[date].mean(),
		})
	}
	return kpis
}

// minMaxNormalize scales scores into [0, 1] across the table. When every
// score is equal the spread is zero and all rows get 0.0.
func minMaxNormalize(scores []float64) []float64 {
	normalized := make([]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if min == max {
		return normalized
	}
	for i, s := range scores {
		normalized[i] = (s - min) / (max - min)
	}
	return normalized
}
