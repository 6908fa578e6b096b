package cli

import (
	"context"
	"fmt"
	"os"
)

// Login prompts for credentials, exchanges them for a token and stores it in
// the session. A successful login fires the authenticated trigger, which
// kicks off a sync+refresh cycle.
func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("input error: %v\n", err)
		return
	}

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	if err := a.session.SetToken(ctx, token); err != nil {
		fmt.Printf("saving session failed: %v\n", err)
		return
	}
	fmt.Println("logged in")
	a.triggers.NotifyAuthenticated()
}

// Logout clears the stored session token. Cached data stays on the device.
func (a *App) Logout(ctx context.Context) {
	if err := a.session.Clear(ctx); err != nil {
		fmt.Printf("logout failed: %v\n", err)
		return
	}
	fmt.Println("logged out")
}
