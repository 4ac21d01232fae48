// Command seed creates a tutor account directly in the database. There is no
// self-service signup; accounts are provisioned with this tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/repository"
	"github.com/campus-tutoring/helpqueue/internal/sqlite"
)

func main() {
	dbPath := flag.String("db", "helpqueue.db", "path to the SQLite database")
	username := flag.String("username", "", "login username (required)")
	password := flag.String("password", "", "login password (required)")
	name := flag.String("name", "", "display name shown on claimed tickets (defaults to username)")
	role := flag.String("role", "tutor", "account role: tutor or admin")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -username <name> -password <secret> [-name <display>] [-role tutor|admin] [-db <path>]")
		os.Exit(2)
	}

	var accountRole identity.Role
	switch *role {
	case "tutor":
		accountRole = identity.RoleTutor
	case "admin":
		accountRole = identity.RoleAdmin
	default:
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "run migrations: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	users := sqlite.NewUserRepository(db)
	svc := identity.NewService(users, nil, logger)

	user, err := svc.Register(context.Background(), *username, *password, *name, accountRole)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Fprintf(os.Stderr, "user %q already exists\n", *username)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user %q created (id %s, role %s)\n", user.Username, user.ID, user.Role)
}
