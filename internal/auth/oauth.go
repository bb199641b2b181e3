package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes covers writing uploaded files and reading/writing spreadsheets.
var Scopes = []string{drive.DriveFileScope, sheets.SpreadsheetsScope}

// Flow signs a user in and hands out token sources for the stored token.
type Flow struct {
	config *oauth2.Config
	store  *FileStore
}

func NewFlow(clientID, clientSecret, redirectURL string, store *FileStore) *Flow {
	return &Flow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		store: store,
	}
}

// AuthCodeURL is the consent page the user opens to sign in.
func (f *Flow) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the code shown after consent for a token and stores it.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := f.store.Save(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// TokenSource returns a source for the stored token, refreshing and re-saving it as needed.
// ErrNoToken means the user has to log in first.
func (f *Flow) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := f.store.Load()
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		base:  f.config.TokenSource(ctx, tok),
		store: f.store,
		last:  tok.AccessToken,
	}, nil
}

// Logout forgets the stored token.
func (f *Flow) Logout() error {
	return f.store.Clear()
}
