package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// DefaultScopes are requested for every login.
var DefaultScopes = []string{"openid", "email", "profile"}

// OAuthFile is the client-secrets document downloaded from the identity
// provider console.
type OAuthFile struct {
	Web struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		RedirectURIs []string `json:"redirect_uris"`
		AuthURI      string   `json:"auth_uri"`
		TokenURI     string   `json:"token_uri"`
	} `json:"web"`
}

// LoadOAuthFile reads a client-secrets file and builds the OAuth2 config.
// The first redirect URI is used.
func LoadOAuthFile(filename string) (*oauth2.Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer file.Close()

	var doc OAuthFile
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	switch {
	case doc.Web.ClientID == "":
		return nil, errors.New("missing client_id in config")
	case doc.Web.ClientSecret == "":
		return nil, errors.New("missing client_secret in config")
	case len(doc.Web.RedirectURIs) == 0 || doc.Web.RedirectURIs[0] == "":
		return nil, errors.New("missing redirect_uris in config")
	case doc.Web.AuthURI == "":
		return nil, errors.New("missing auth_uri in config")
	case doc.Web.TokenURI == "":
		return nil, errors.New("missing token_uri in config")
	}

	return &oauth2.Config{
		ClientID:     doc.Web.ClientID,
		ClientSecret: doc.Web.ClientSecret,
		RedirectURL:  doc.Web.RedirectURIs[0],
		Scopes:       DefaultScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  doc.Web.AuthURI,
			TokenURL: doc.Web.TokenURI,
		},
	}, nil
}
