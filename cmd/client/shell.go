package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/atinyakov/GophNotes/internal/client"
)

const helpText = `Available commands:
  signup                 create an account
  login                  log in and remember the token
  logout                 forget the token
  whoami                 show the logged-in user
  list                   list all notes
  get <id>               show a note
  create                 create a note
  edit <id>              replace a note's title and content
  delete <id>            delete a note
  share <id> <user>      share a note with a user
  search <text>          find notes containing text
  user <id>              show a user
  help                   show this help
  exit                   leave the shell`

// shell runs the interactive command loop against one server.
type shell struct {
	api         *client.Client
	session     *client.Session
	sessionPath string
	prompt      *client.Prompter
	out         io.Writer
}

func (s *shell) run(ctx context.Context) {
	for {
		line, ok := s.prompt.Ask("gophnotes> ")
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.exec(ctx, line, args); err != nil {
			if client.IsUnauthorized(err) && s.session.Token != "" {
				fmt.Fprintln(s.out, "Session expired, please login again.")
				s.forget()
				continue
			}
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

// rawArgument returns what follows the command word in line, with
// interior whitespace kept. A fully quoted remainder is unquoted.
func rawArgument(line string) string {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeftFunc(line[i:], unicode.IsSpace)
	if unquoted, err := strconv.Unquote(rest); err == nil {
		return unquoted
	}
	return rest
}

func (s *shell) exec(ctx context.Context, line string, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "signup":
		user, pass, ok := s.prompt.Credentials()
		if !ok {
			return nil
		}
		if err := s.api.Signup(ctx, user, pass); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Account created. Use 'login' to sign in.")
	case "login":
		user, pass, ok := s.prompt.Credentials()
		if !ok {
			return nil
		}
		token, err := s.api.Login(ctx, user, pass)
		if err != nil {
			return err
		}
		s.session.Username = user
		s.session.Token = token
		if err := s.session.Save(s.sessionPath); err != nil {
			fmt.Fprintln(s.out, "Warning: session not saved:", err)
		}
		fmt.Fprintf(s.out, "Logged in as %s\n", user)
	case "logout":
		s.forget()
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		if s.session.Username == "" {
			fmt.Fprintln(s.out, "Not logged in")
		} else {
			fmt.Fprintln(s.out, s.session.Username)
		}
	case "list":
		notes, err := s.api.ListNotes(ctx)
		if err != nil {
			return err
		}
		s.printNotes(notes)
	case "get":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: get <id>")
			return nil
		}
		n, err := s.api.GetNote(ctx, args[1])
		if err != nil {
			return err
		}
		s.printNote(*n)
	case "create":
		title, content, ok := s.prompt.Note()
		if !ok {
			return nil
		}
		n, err := s.api.CreateNote(ctx, title, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note created: %s\n", n.ID)
	case "edit":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: edit <id>")
			return nil
		}
		title, content, ok := s.prompt.Note()
		if !ok {
			return nil
		}
		if _, err := s.api.UpdateNote(ctx, args[1], title, content); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Note updated")
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: delete <id>")
			return nil
		}
		if err := s.api.DeleteNote(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Note deleted")
	case "share":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: share <id> <user>")
			return nil
		}
		if err := s.api.ShareNote(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Note shared with %s\n", args[2])
	case "search":
		notes, err := s.api.SearchNotes(ctx, rawArgument(line))
		if err != nil {
			return err
		}
		s.printNotes(notes)
	case "user":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: user <id>")
			return nil
		}
		u, err := s.api.GetUser(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "ID: %s\nUsername: %s\n", u.ID, u.Username)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *shell) forget() {
	s.session.Clear()
	s.api.SetToken("")
	if err := s.session.Save(s.sessionPath); err != nil {
		fmt.Fprintln(s.out, "Warning: session not saved:", err)
	}
}

func (s *shell) printNotes(notes []client.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(s.out, "No notes")
		return
	}
	for _, n := range notes {
		s.printNote(n)
	}
}

func (s *shell) printNote(n client.Note) {
	fmt.Fprintf(s.out, "ID: %s\nTitle: %s\nContent: %s\n---\n", n.ID, n.Title, n.Content)
}
