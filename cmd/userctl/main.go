// userctl is a one-shot provisioning tool that mutates auth.json
// directly: it creates users, changes passwords and lists accounts. The
// server only ever reads user records, so running userctl while the
// server is up is safe apart from the documented whole-file write race.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"leadadmin/internal/auth"
	"leadadmin/internal/models"
	"leadadmin/internal/store"
)

const minPasswordLength = 6

func main() {
	dataDir := flag.String("data", "./data", "data directory holding auth.json")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	users := store.NewAuthStore(filepath.Join(*dataDir, "auth.json"))

	var err error
	switch args[0] {
	case "create":
		err = createUser(users)
	case "passwd":
		if len(args) < 2 {
			err = fmt.Errorf("usage: userctl passwd <username>")
		} else {
			err = changePassword(users, args[1])
		}
	case "list":
		err = listUsers(users)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: userctl [-data DIR] <command>

commands:
  create            interactively create a user
  passwd <username> change a user's password
  list              print all users`)
}

func createUser(users *store.AuthStore) error {
	in := bufio.NewReader(os.Stdin)

	username, err := prompt(in, "Username: ")
	if err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}
	if _, err := users.FindByUsername(username); err == nil {
		return fmt.Errorf("user %q already exists", username)
	}

	name, err := prompt(in, "Full name: ")
	if err != nil {
		return err
	}
	email, err := prompt(in, "Email (optional): ")
	if err != nil {
		return err
	}
	roleStr, err := prompt(in, "Role (admin/manager/viewer): ")
	if err != nil {
		return err
	}
	role := models.Role(roleStr)
	if roleStr == "" {
		role = models.RoleViewer
	}
	if !role.Valid() {
		return fmt.Errorf("role must be admin, manager or viewer")
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	u, err := users.Create(models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        email,
		Role:         role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (%s) role=%s id=%d\n", u.Username, u.Name, u.Role, u.ID)
	return nil
}

func changePassword(users *store.AuthStore, username string) error {
	if _, err := users.FindByUsername(username); err != nil {
		return fmt.Errorf("user %q not found", username)
	}
	password, err := readNewPassword()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := users.SetPassword(username, hash); err != nil {
		return err
	}
	fmt.Printf("password updated for %s\n", username)
	return nil
}

func listUsers(users *store.AuthStore) error {
	all := users.List()
	if len(all) == 0 {
		fmt.Println("no users")
		return nil
	}
	for _, u := range all {
		fmt.Printf("%-20s %-10s %-25s %s\n", u.Username, u.Role, u.Email, u.Name)
	}
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readNewPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(first) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
