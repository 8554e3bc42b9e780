package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword

	errHelp = errors.New("help provided")
)

type userCreator interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*models.User, error)
}

type commandLine struct {
	migrate func(ctx context.Context) error
	users   userCreator
	logger  *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate                                          - apply the database schema")
	fmt.Println("  adduser -email EMAIL -name NAME -role ROLE [-student ID] - create an account; the password is prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	email := addUserCmd.String("email", "", "login email")
	name := addUserCmd.String("name", "", "full name")
	role := addUserCmd.String("role", string(models.RoleAdmin), "ADMIN, TEACHER or STUDENT")
	studentID := addUserCmd.String("student", "", "linked student id for STUDENT accounts")

	switch args[1] {
	case "migrate":
		if err := cli.migrate(ctx); err != nil {
			return err
		}
		cli.logger.Info("schema applied")
		return nil
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *email == "" || *name == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		req := service.CreateUserRequest{
			Email:    *email,
			Password: string(pwd),
			FullName: *name,
			Role:     models.UserRole(*role),
		}
		if *studentID != "" {
			req.StudentID = studentID
		}
		user, err := cli.users.CreateUser(ctx, req)
		if err != nil {
			return err
		}
		cli.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}
