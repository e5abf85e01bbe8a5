// Package main provides a tool to seed the database with demo catalog data.
//
// This creates a handful of well-known games, optional test users, and
// realistic play history so the library and playtime features have something
// to show.
//
// Usage:
//
//	DATA_PATH=~/PlayDeck/data go run ./cmd/seed
//	DATA_PATH=~/PlayDeck/data go run ./cmd/seed --create-users  # Also create test users
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/playdeckapp/playdeck-server/internal/auth"
	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/id"
	"github.com/playdeckapp/playdeck-server/internal/store/sqlite"
)

var createUsers = flag.Bool("create-users", false, "Create test users for library seeding")

type seedGame struct {
	title     string
	developer string
	publisher string
	year      int
}

var catalog = []seedGame{
	{"Hollow Knight", "Team Cherry", "Team Cherry", 2017},
	{"Celeste", "Maddy Makes Games", "Maddy Makes Games", 2018},
	{"Hades", "Supergiant Games", "Supergiant Games", 2020},
	{"Outer Wilds", "Mobius Digital", "Annapurna Interactive", 2019},
	{"Elden Ring", "FromSoftware", "Bandai Namco", 2022},
	{"Stardew Valley", "ConcernedApe", "ConcernedApe", 2016},
	{"Factorio", "Wube Software", "Wube Software", 2020},
	{"Disco Elysium", "ZA/UM", "ZA/UM", 2019},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/PlayDeck/data")
	}

	dbPath := filepath.Join(dataPath, "playdeck.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	games := seedCatalog(ctx, s)

	if *createUsers {
		createTestUsers(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to get users: %v", err)
	}
	if len(users) == 0 {
		log.Fatal("No users found in database. Run server setup or pass --create-users first.")
	}

	seedLibraries(ctx, s, users, games)

	fmt.Println("Done.")
}

func seedCatalog(ctx context.Context, s *sqlite.Store) []*domain.Game {
	existing, err := s.ListGames(ctx)
	if err != nil {
		log.Fatalf("Failed to list games: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("Catalog already has %d games, skipping catalog seed\n", len(existing))
		return existing
	}

	games := make([]*domain.Game, 0, len(catalog))
	for _, g := range catalog {
		gameID, err := id.Generate("game")
		if err != nil {
			log.Fatalf("Failed to generate game ID: %v", err)
		}

		game := &domain.Game{
			Title:       g.title,
			Developer:   g.developer,
			Publisher:   g.publisher,
			ReleaseYear: g.year,
		}
		game.ID = gameID
		game.InitTimestamps()

		if err := s.CreateGame(ctx, game); err != nil {
			log.Fatalf("Failed to create game %q: %v", g.title, err)
		}
		games = append(games, game)
		fmt.Printf("Created game: %s\n", g.title)
	}

	return games
}

func createTestUsers(ctx context.Context, s *sqlite.Store) {
	names := []struct {
		first, last, email string
	}{
		{"Ada", "Lovelace", "ada@example.com"},
		{"Grace", "Hopper", "grace@example.com"},
		{"Alan", "Turing", "alan@example.com"},
	}

	hash, err := auth.HashPassword("SeedPassword123!")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	for _, n := range names {
		userID, err := id.Generate("user")
		if err != nil {
			log.Fatalf("Failed to generate user ID: %v", err)
		}

		user := &domain.User{
			Email:        n.email,
			PasswordHash: hash,
			DisplayName:  n.first + " " + n.last,
			FirstName:    n.first,
			LastName:     n.last,
			Role:         domain.RoleMember,
			Status:       domain.UserStatusActive,
		}
		user.ID = userID
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			fmt.Printf("Skipping user %s: %v\n", n.email, err)
			continue
		}
		fmt.Printf("Created user: %s\n", n.email)
	}
}

func seedLibraries(ctx context.Context, s *sqlite.Store, users []*domain.User, games []*domain.Game) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		// Each user gets a random slice of the catalog.
		count := 2 + rng.Intn(len(games)-1)
		perm := rng.Perm(len(games))

		for i := 0; i < count; i++ {
			game := games[perm[i]]

			entryID, err := id.Generate("entry")
			if err != nil {
				log.Fatalf("Failed to generate entry ID: %v", err)
			}

			entry := &domain.LibraryEntry{
				UserID:     user.ID,
				GameID:     game.ID,
				IsFavorite: rng.Intn(4) == 0,
			}
			entry.ID = entryID
			entry.InitTimestamps()

			if err := s.CreateEntry(ctx, entry); err != nil {
				fmt.Printf("Skipping entry for %s / %s: %v\n", user.Email, game.Title, err)
				continue
			}

			seedPlayHistory(ctx, s, rng, entry)
			fmt.Printf("Added %s to %s's library (%d min played)\n",
				game.Title, user.Email, entry.PlaytimeMinutes)
		}
	}
}

func seedPlayHistory(ctx context.Context, s *sqlite.Store, rng *rand.Rand, entry *domain.LibraryEntry) {
	sessions := rng.Intn(6)

	for i := 0; i < sessions; i++ {
		playID, err := id.Generate("play")
		if err != nil {
			log.Fatalf("Failed to generate play ID: %v", err)
		}

		minutes := int64(20 + rng.Intn(160))
		playedAt := time.Now().AddDate(0, 0, -rng.Intn(60))

		play := &domain.PlaySession{
			ID:             playID,
			LibraryEntryID: entry.ID,
			PlayedAt:       playedAt,
			Minutes:        minutes,
			CreatedAt:      time.Now(),
		}

		if err := s.CreatePlaySession(ctx, play); err != nil {
			fmt.Printf("Skipping play session: %v\n", err)
			continue
		}

		entry.AddPlaytime(minutes)
	}

	if entry.PlaytimeMinutes > 0 {
		entry.Touch()
		if err := s.UpdateEntry(ctx, entry); err != nil {
			fmt.Printf("Failed to update playtime: %v\n", err)
		}
	}
}
