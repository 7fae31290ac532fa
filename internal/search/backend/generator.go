package backend

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// resultNamespace scopes generated result IDs so the same seed key and index
// always yield the same ID.
var resultNamespace = uuid.MustParse("6f1c2a9e-3f57-4c1b-9a0e-5d2b7c8e4f10")

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "Michael", "Jennifer", "David", "Linda",
		"William", "Elizabeth", "Daniel", "Susan", "Thomas", "Jessica", "Anthony", "Karen",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Moore",
	}
	locations = []string{
		"New York, NY", "Los Angeles, CA", "Chicago, IL", "Houston, TX", "Phoenix, AZ",
		"Philadelphia, PA", "San Antonio, TX", "San Diego, CA", "Dallas, TX", "Austin, TX",
	}
	genders         = []string{"Male", "Female"}
	maritalStatuses = []string{"Single", "Married", "Divorced", "Widowed"}
)

// ResultID returns the stable ID of the index-th result generated for seedKey.
func ResultID(seedKey string, index int) string {
	return uuid.NewSHA1(resultNamespace, []byte(fmt.Sprintf("%s#%d", seedKey, index))).String()
}

// Generated ages fall inside the default filter range (18, 65].
const (
	minGeneratedAge = domain.DefaultMinAge + 1
	maxGeneratedAge = domain.DefaultMaxAge
)

// GeneratePerson builds a plausible random person. Content comes from rng;
// the ID depends only on seedKey and index.
func GeneratePerson(rng *rand.Rand, seedKey string, index int) domain.SearchResult {
	return domain.SearchResult{
		ID:            ResultID(seedKey, index),
		Name:          pick(rng, firstNames) + " " + pick(rng, lastNames),
		Age:           minGeneratedAge + rng.IntN(maxGeneratedAge-minGeneratedAge+1),
		Gender:        pick(rng, genders),
		MaritalStatus: pick(rng, maritalStatuses),
		Location:      pick(rng, locations),
		Rating:        math.Round(rng.Float64()*50) / 10,
		References:    rng.IntN(20),
		Companies:     rng.IntN(6),
		Contacts:      rng.IntN(150),
		AvatarURL:     AvatarURL(rng),
	}
}

// AvatarURL returns a random placeholder avatar.
func AvatarURL(rng *rand.Rand) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rng.IntN(70)+1)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
