package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRadiusMeters applies when no radius is supplied: effectively
// unbounded for a city-scale dataset.
const DefaultRadiusMeters = 1000000

// SearchParams are the nearby-query filters. Latitude, longitude and
// RadiusMeters are always set; the rest apply only when non-zero/non-nil.
type SearchParams struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Vibe         string
	SafetyMin    *float64
	CrowdMax     *float64
	Keyword      string
}

// buildSearchFilter composes the compound query: a mandatory $near proximity
// constraint AND-ed with each optional filter that is present.
func buildSearchFilter(p SearchParams) bson.M {
	radius := p.RadiusMeters
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}

	and := []bson.M{
		{
			"location": bson.M{
				"$near": bson.M{
					"$geometry": bson.M{
						"type":        "Point",
						"coordinates": []float64{p.Longitude, p.Latitude},
					},
					"$maxDistance": radius,
				},
			},
		},
	}

	if vibe := strings.TrimSpace(p.Vibe); vibe != "" {
		// Exact match, case-insensitive. User input is escaped so regex
		// metacharacters cannot alter the pattern.
		and = append(and, bson.M{"vibe": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(vibe) + "$",
			Options: "i",
		}})
	}

	if p.SafetyMin != nil {
		and = append(and, bson.M{"ratings.safety": bson.M{"$gte": *p.SafetyMin}})
	}

	if p.CrowdMax != nil {
		and = append(and, bson.M{"ratings.crowd": bson.M{"$lte": *p.CrowdMax}})
	}

	if keyword := strings.TrimSpace(p.Keyword); keyword != "" {
		// OR-of-words substring match over name and description, not a
		// phrase match: "red fox" hits anything containing "red" or "fox".
		words := strings.Fields(keyword)
		escaped := make([]string, len(words))
		for i, w := range words {
			escaped[i] = regexp.QuoteMeta(w)
		}
		wordRegex := primitive.Regex{Pattern: strings.Join(escaped, "|"), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"name": wordRegex},
			{"description": wordRegex},
		}})
	}

	return bson.M{"$and": and}
}
