// Seed adds demo users, each owning a few todos. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"todo-server/internal/config"
	"todo-server/internal/database"
	"todo-server/internal/models"
	"todo-server/internal/repository"
	"todo-server/pkg/logger"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	todosPerUser := flag.Int("todos", 5, "todos per user")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config failed:", err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	run := time.Now().Unix()
	start := time.Now()

	for i := 1; i <= *users; i++ {
		name := fmt.Sprintf("Seed User %d", i)
		email := fmt.Sprintf("seed-%d-%d@example.com", run, i)
		u, err := userRepo.Create(ctx, models.UserInput{Name: &name, Email: &email})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Insert user failed:", err)
			os.Exit(1)
		}
		for j := 1; j <= *todosPerUser; j++ {
			title := fmt.Sprintf("Todo %d for %s", j, name)
			if _, err := todoRepo.Create(ctx, models.TodoInput{UserID: &u.ID, Title: &title}); err != nil {
				fmt.Fprintln(os.Stderr, "Insert todo failed:", err)
				os.Exit(1)
			}
		}
		fmt.Printf("\rInserted %d / %d users", i, *users)
	}

	fmt.Println()
	logger.Infof(ctx, "Seeded %d users and %d todos in %v", *users, (*users)*(*todosPerUser), time.Since(start))
}
