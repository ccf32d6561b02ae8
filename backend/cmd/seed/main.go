package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/internal/format"
	"socialgraph/backend/internal/graph"
	"socialgraph/backend/internal/persistence"
	"socialgraph/backend/pkg/config"
	"socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
)

func main() {
	seed := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	accounts := flag.Int("accounts", -1, "Accounts to create (default SEED_ACCOUNTS)")
	posts := flag.Int("posts", -1, "Original posts to create (default SEED_POSTS)")
	dryRun := flag.Bool("dry-run", false, "Print the summary without saving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting graph seeding...")

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *accounts < 0 {
		*accounts = cfg.SeedAccounts
	}
	if *posts < 0 {
		*posts = cfg.SeedPosts
	}

	g := graph.New(logger.Named("graph"))
	top, err := populate(g, gofakeit.New(*seed), *accounts, *posts)
	if err != nil {
		log.Fatal("Failed to populate graph", zap.Error(err))
	}

	fmt.Println(format.Stats(g.Stats()))
	if top != 0 {
		if tree, err := g.RenderSubtree(top); err == nil {
			fmt.Println()
			fmt.Println(tree)
		}
	}

	if *dryRun {
		log.Info("Dry run, nothing saved")
		return
	}

	ctx := context.Background()
	store, err := persistence.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	if store == nil {
		log.Warn("SNAPSHOT_BACKEND is none, nothing saved")
		return
	}
	defer store.Close(ctx)

	snap := g.Save()
	if err := store.Save(ctx, snap); err != nil {
		log.Fatal("Failed to save snapshot", zap.Error(err))
	}

	log.Info("Seeding completed",
		zap.Int64("seed", *seed),
		zap.String("store", store.Name()),
		zap.String("snapshot_id", snap.ID),
	)
}

// populate fills g with accounts, original posts and a random mix of
// replies, endorsements and removals. It returns the id of the most
// endorsed post or comment, or 0 when there is none.
func populate(g *graph.Graph, faker *gofakeit.Faker, accounts, posts int) (int, error) {
	handles := make([]string, 0, accounts)
	for len(handles) < accounts {
		handle := fakeHandle(faker, len(handles))
		if _, err := g.CreateAccount(handle, faker.Sentence(6)); err != nil {
			if errors.Is(err, errors.ErrHandleTaken) {
				continue
			}
			return 0, err
		}
		handles = append(handles, handle)
	}
	if len(handles) == 0 {
		return 0, nil
	}

	pick := func() string { return handles[faker.Number(0, len(handles)-1)] }

	var targets []int
	for i := 0; i < posts; i++ {
		id, err := g.CreatePost(pick(), fakeMessage(faker))
		if err != nil {
			return 0, err
		}
		targets = append(targets, id)

		// each post draws a small thread of replies and endorsements
		for j := faker.Number(0, 4); j > 0; j-- {
			target := targets[faker.Number(0, len(targets)-1)]
			if faker.Bool() {
				if cid, err := g.CreateComment(pick(), target, fakeMessage(faker)); err == nil {
					targets = append(targets, cid)
				} else if !errors.Is(err, errors.ErrTargetNotFound) {
					return 0, err
				}
				continue
			}
			if _, err := g.Endorse(pick(), target); err != nil && !errors.Is(err, errors.ErrTargetNotFound) {
				return 0, err
			}
		}

		if faker.Number(0, 19) == 0 {
			victim := targets[faker.Number(0, len(targets)-1)]
			if err := g.Delete(victim); err != nil && !errors.Is(err, errors.ErrContentNotFound) {
				return 0, err
			}
		}
	}

	top, _ := g.MostEndorsedContent()
	return top, nil
}

// fakeHandle derives a valid handle from a fake username
func fakeHandle(faker *gofakeit.Faker, n int) string {
	handle := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, faker.Username())
	suffix := fmt.Sprintf("%d", n)
	if limit := constants.MaxHandleLength - len(suffix); utf8.RuneCountInString(handle) > limit {
		handle = string([]rune(handle)[:limit])
	}
	return handle + suffix
}

// fakeMessage returns a sentence cut to the message length limit
func fakeMessage(faker *gofakeit.Faker) string {
	msg := []rune(faker.Sentence(faker.Number(3, 12)))
	if len(msg) > constants.MaxMessageLength {
		msg = msg[:constants.MaxMessageLength]
	}
	return string(msg)
}
