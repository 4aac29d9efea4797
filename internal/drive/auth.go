package drive

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
)

// Authenticate runs the interactive OAuth consent flow: prints the consent
// URL to out, reads the authorization code from in, exchanges it, and
// persists the resulting token. Offline access is requested so the stored
// token carries a refresh token.
func Authenticate(ctx context.Context, clientSecretsPath string, tokens TokenStore, in io.Reader, out io.Writer) error {
	cfg, err := oauthConfig(clientSecretsPath)
	if err != nil {
		return err
	}

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser and authorize access:\n\n  %s\n\nAuthorization code: ", url)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := tokens.Save(ctx, tokenProvider, tok); err != nil {
		return fmt.Errorf("store drive token: %w", err)
	}
	fmt.Fprintln(out, "Credentials stored.")
	return nil
}
