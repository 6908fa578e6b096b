package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.session.IsAuthenticated() {
		s = "authenticated"
	} else {
		s = "logged out"
	}
	if a.triggers.IsOnline() {
		s += ", online"
	} else {
		s += ", offline"
	}
	return "(" + s + ")"
}

// Root runs the REPL until exit or EOF.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Match tracker CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("mt %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands:")
			fmt.Println("  login, logout, status")
			fmt.Println("  refresh            pull server state into the cache")
			fmt.Println("  sync               push unsynced local records")
			fmt.Println("  teams|players|matches            list cached records")
			fmt.Println("  pending <entity>                 list unsynced records")
			fmt.Println("  addteam <name>")
			fmt.Println("  addplayer <name> [squad number]")
			fmt.Println("  addmatch <home team id> <away team id>")
			fmt.Println("  addevent <match id> <kind>")
			fmt.Println("  show <entity> <id>")
			fmt.Println("  delete <entity> <id>")
			fmt.Println("  exit")

		case "login":
			a.Login(ctx)

		case "logout":
			a.Logout(ctx)

		case "status":
			fmt.Println(a.getStatus())

		case "refresh":
			a.Refresh(ctx)

		case "sync":
			a.Sync(ctx)

		case "teams", "players", "matches":
			a.List(ctx, cmd)

		case "pending":
			a.Pending(ctx, args)

		case "addteam":
			a.AddTeam(ctx, args)

		case "addplayer":
			a.AddPlayer(ctx, args)

		case "addmatch":
			a.AddMatch(ctx, args)

		case "addevent":
			a.AddEvent(ctx, args)

		case "show":
			a.Show(ctx, args)

		case "delete":
			a.Delete(ctx, args)

		case "exit", "quit":
			return

		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}
