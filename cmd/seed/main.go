package main

import (
	"context"
	"log"
	"time"

	"hiddenspots/internal/config"
	"hiddenspots/internal/db"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.NewMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	log.Println("Connected to mongo")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureSpotIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	repo := repository.NewSpotRepository(database)

	seeded := 0
	for _, spot := range demoSpots() {
		s := spot
		if err := repo.Create(ctx, &s); err != nil {
			log.Fatalf("Failed to seed spot %q: %v", s.Name, err)
		}
		seeded++
	}

	log.Printf("Seed completed successfully! Spots created: %d", seeded)
}

// demoSpots returns a handful of spots around central Amsterdam.
func demoSpots() []model.Spot {
	now := time.Now().UTC()
	point := func(lng, lat float64) model.GeoPoint {
		return model.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
	}
	return []model.Spot{
		{
			Name:        "Hidden Courtyard Garden",
			Vibe:        "Serene",
			Description: "A quiet courtyard behind the old chapel, full of wisteria in spring.",
			Location:    point(4.8896, 52.3739),
			Images:      []string{},
			Comments:    []model.Comment{},
			Flags:       []model.Flag{},
			CreatedBy:   model.AnonymousUser,
			CreatedAt:   now,
		},
		{
			Name:        "Rooftop Sunset Ledge",
			Vibe:        "Romantic",
			Description: "Parking garage roof with an unobstructed view west over the canals.",
			Location:    point(4.8952, 52.3702),
			Images:      []string{},
			Comments:    []model.Comment{},
			Flags:       []model.Flag{},
			CreatedBy:   model.AnonymousUser,
			CreatedAt:   now,
		},
		{
			Name:        "Graffiti Tunnel",
			Vibe:        "Creative",
			Description: "Pedestrian underpass that doubles as a rotating street art gallery.",
			Location:    point(4.9041, 52.3676),
			Images:      []string{},
			Comments:    []model.Comment{},
			Flags:       []model.Flag{},
			CreatedBy:   model.AnonymousUser,
			CreatedAt:   now,
		},
		{
			Name:        "Harbor Crane Cafe",
			Vibe:        "Other",
			Description: "Tiny espresso bar inside a decommissioned harbor crane, red fox mural on the side.",
			Location:    point(4.9141, 52.3812),
			Images:      []string{},
			Comments:    []model.Comment{},
			Flags:       []model.Flag{},
			CreatedBy:   model.AnonymousUser,
			CreatedAt:   now,
		},
	}
}
