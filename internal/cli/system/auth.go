package system

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/keyring"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/validation"
)

type AuthCmd struct {
	Login    AuthLoginCmd    `cmd:"" help:"Sign in and store the API token in the OS keyring."`
	Register AuthRegisterCmd `cmd:"" help:"Create an account, then sign in."`
	Token    AuthTokenCmd    `cmd:"" help:"Store an API token in the OS keyring."`
	Status   AuthStatusCmd   `cmd:"" help:"Show who is signed in." default:"1"`
	Logout   AuthLogoutCmd   `cmd:"" help:"Remove the stored API token and cached responses."`
}

type AuthLoginCmd struct {
	Email    string `help:"Account email." required:""`
	Password string `help:"Account password. Prompted for when omitted." env:"WELLDAY_PASSWORD"`
}

func (cmd *AuthLoginCmd) Run(ctx *cli.Context) error {
	password, err := promptPassword(cmd.Password, "Password for "+cmd.Email)
	if err != nil {
		return err
	}
	return signIn(ctx, models.LoginInput{Email: strings.TrimSpace(cmd.Email), Password: password})
}

// promptPassword returns password, asking for it when empty.
func promptPassword(password, title string) (string, error) {
	if password != "" {
		return password, nil
	}
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&password),
	)).Run()
	return password, err
}

func signIn(ctx *cli.Context, input models.LoginInput) error {
	if err := validation.Check(input); err != nil {
		return err
	}

	body, err := ctx.Client().Request(ctx.Context(), "/auth/login", api.RequestOptions{
		Method: http.MethodPost,
		Body:   input,
	})
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	resp, err := api.Decode[models.LoginResponse](body)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return errors.New("sign in failed: the backend returned no token")
	}

	if err := keyring.SetToken(resp.Token); err != nil {
		return err
	}
	ctx.OK("Signed in as %s", input.Email)
	printClaims(ctx, resp.Token)
	return nil
}

type AuthRegisterCmd struct {
	Email     string `help:"Account email." required:""`
	Username  string `help:"Display username." required:""`
	FirstName string `help:"First name." name:"first-name" required:""`
	LastName  string `help:"Last name." name:"last-name" required:""`
	Password  string `help:"Account password. Prompted for when omitted." env:"WELLDAY_PASSWORD"`
	Login     bool   `help:"Sign in once the account exists." default:"true" negatable:""`
}

func (cmd *AuthRegisterCmd) Run(ctx *cli.Context) error {
	password, err := promptPassword(cmd.Password, "Choose a password")
	if err != nil {
		return err
	}

	input := models.RegisterInput{
		FirstName: strings.TrimSpace(cmd.FirstName),
		LastName:  strings.TrimSpace(cmd.LastName),
		Username:  strings.TrimSpace(cmd.Username),
		Email:     strings.TrimSpace(cmd.Email),
		Password:  password,
	}
	if err := validation.Check(input); err != nil {
		return err
	}

	body, err := ctx.Client().Request(ctx.Context(), constants.RegisterResource, api.RequestOptions{
		Method: http.MethodPost,
		Body:   input,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	resp, err := api.Decode[models.RegisterResponse](body)
	if err != nil {
		return err
	}
	name := resp.User.Username
	if name == "" {
		name = input.Username
	}
	ctx.OK("Account created for %s", name)

	if !cmd.Login {
		ctx.Println("Sign in with 'wellday auth login --email " + input.Email + "'.")
		return nil
	}
	return signIn(ctx, models.LoginInput{Email: input.Email, Password: password})
}

type AuthTokenCmd struct {
	Token string `arg:"" help:"Bearer token issued by the backend."`
}

func (cmd *AuthTokenCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if claims, err := api.TokenClaims(token); err == nil && claims.Expired(ctx.Clock()) {
		return fmt.Errorf("token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	ctx.OK("Token stored in OS keyring")
	printClaims(ctx, token)
	return nil
}

type AuthStatusCmd struct{}

func (cmd *AuthStatusCmd) Run(ctx *cli.Context) error {
	src := ctx.Tokens()
	token, err := src.Token()
	if err != nil {
		return err
	}
	if token == "" {
		ctx.Println("Not signed in. Use 'wellday auth login' to sign in.")
		return nil
	}

	ctx.Printf("Token source: %s\n", src.Origin())
	printClaims(ctx, token)
	return nil
}

func printClaims(ctx *cli.Context, token string) {
	claims, err := api.TokenClaims(token)
	if err != nil {
		ctx.Muted("  (token is not a JWT; expiry unknown)")
		return
	}
	if who := claims.Email; who != "" {
		ctx.Printf("  Account: %s\n", who)
	} else if claims.Subject != "" {
		ctx.Printf("  Account: %s\n", claims.Subject)
	}
	if claims.ExpiresAt.IsZero() {
		ctx.Printf("  Expires: never\n")
		return
	}
	state := "valid"
	if claims.Expired(ctx.Clock()) {
		state = "expired"
	}
	ctx.Printf("  Expires: %s (%s)\n", claims.ExpiresAt.In(ctx.Clock().Location()).Format("2006-01-02 15:04 MST"), state)
}

type AuthLogoutCmd struct{}

func (cmd *AuthLogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API token found in keyring")
		}
		return err
	}
	ctx.OK("API token deleted from OS keyring")

	cache, err := ctx.Cache(ctx.Context())
	if err != nil {
		ctx.Muted("Response cache not cleared: %v", err)
		return nil
	}
	if err := cache.Clear(ctx.Context()); err != nil {
		return err
	}
	ctx.OK("Cleared cached responses")
	return nil
}
