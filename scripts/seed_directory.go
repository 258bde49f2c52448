package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/adapters/persistence"
	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/auth"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var seedSkills = []skill.Skill{
	{Name: "Go", Category: "Engineering"},
	{Name: "PostgreSQL", Category: "Engineering"},
	{Name: "Figma", Category: "Design"},
	{Name: "User Research", Category: "Design"},
	{Name: "Roadmapping", Category: "Product"},
}

func seedProfiles(skills map[string]skill.Skill) []profile.Profile {
	attach := func(name string, level profile.Proficiency) profile.ProfileSkill {
		s := skills[name]
		return profile.ProfileSkill{ID: s.ID, Name: s.Name, Category: s.Category, Proficiency: level}
	}
	hours := 32.0
	return []profile.Profile{
		{
			Name:       "Linh Nguyen",
			Title:      "Backend Engineer",
			Department: "Engineering",
			Contact:    profile.Contact{Email: "linh@example.com", Phone: "+84 90 000 0001", Location: "Ho Chi Minh City"},
			Skills: []profile.ProfileSkill{
				attach("Go", profile.ProficiencyExpert),
				attach("PostgreSQL", profile.ProficiencyAdvanced),
			},
			Availability: profile.Availability{
				Status:   profile.StatusAvailable,
				Timezone: "Asia/Ho_Chi_Minh",
				Capacity: &profile.Capacity{HoursPerWeek: &hours},
			},
			Tags: []string{"backend", "mentor"},
		},
		{
			Name:       "Sam Carter",
			Title:      "Product Designer",
			Department: "Design",
			Contact:    profile.Contact{Email: "sam@example.com", Phone: "+1 555 0102"},
			Skills: []profile.ProfileSkill{
				attach("Figma", profile.ProficiencyExpert),
				attach("User Research", profile.ProficiencyIntermediate),
			},
			Availability: profile.Availability{Status: profile.StatusLimited, NextAvailable: "2026-11-01"},
		},
	}
}

func main() {
	hashOnly := flag.Bool("hash", false, "print a bcrypt hash of $ADMIN_PASSWORD and exit")
	flag.Parse()

	if *hashOnly {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("ADMIN_PASSWORD is empty")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("cannot hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()

	ctx := context.Background()
	repo, closeRepo, err := persistence.OpenDirectoryRepo(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open record storage", err)
	}
	defer closeRepo()

	st, err := store.NewProvider(repo, appLogger).Store(ctx)
	if err != nil {
		appLogger.Fatal("Cannot load record store", err)
	}

	// Skills are deduplicated by name and categories by value, so reruns only
	// add profiles when the directory is still empty.
	byName := map[string]skill.Skill{}
	for _, s := range seedSkills {
		added, _, err := st.AddSkill(ctx, s)
		if err != nil {
			appLogger.Fatal("Cannot seed skill", err, zap.String("name", s.Name))
		}
		byName[added.Name] = added
	}

	if n := len(st.ListProfiles()); n > 0 {
		appLogger.Info("Directory already has profiles, skipping profile seed", zap.Int("profiles", n))
		return
	}
	for _, p := range seedProfiles(byName) {
		added, err := st.AddProfile(ctx, p)
		if err != nil {
			appLogger.Fatal("Cannot seed profile", err, zap.String("name", p.Name))
		}
		appLogger.Info("Seeded profile", zap.String("profile_id", added.ID), zap.String("name", added.Name))
	}

	fmt.Printf("seeded %d skills and %d profiles into %s storage\n", len(byName), len(st.ListProfiles()), cfg.Storage.Driver)
}
