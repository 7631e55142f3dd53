package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/client"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
)

func (a *App) readCredentials() (string, string, error) {
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	pw, err := GetPassword(a.in, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)
	return email, string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.report(err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.sessions.Register(ctx, email, password); err != nil {
		return a.report(err)
	}
	a.println("Account created. Signed in as " + email + ".")
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.report(err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.sessions.SignIn(ctx, email, password); err != nil {
		return a.report(err)
	}
	a.println("Signed in as " + email + ".")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.sessions.Status(ctx)
	if err != nil {
		return a.report(err)
	}
	if !st.SignedIn {
		a.println(client.ErrNotSignedIn.Error())
		return nil
	}

	expiry := fmt.Sprintf("expires in %ds", st.ExpiresIn)
	if st.Expired {
		expiry = "(expired)"
	}
	a.println(fmt.Sprintf("Signed in as %s (user %s). Identity token %s", st.Email, st.UserID, expiry))
	return nil
}

func (a *App) Product(ctx context.Context, id string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	p, err := a.sessions.CallProduct(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.println(fmt.Sprintf("%s: %.2f (%s)", p.Title, p.CurrentPrice, p.Image))
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		return a.report(err)
	}
	a.println("Signed out.")
	return nil
}

// report prints a user-facing line for err and returns it unchanged.
func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrInvalidInput):
		a.println("Email and password are required.")
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server unavailable.")
	case errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, client.ErrNotSignedIn),
		errors.Is(err, client.ErrSessionInvalid):
		a.println(err.Error())
	default:
		a.println("Error:", err.Error())
	}
	return err
}
