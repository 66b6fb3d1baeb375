package api

import (
	"context"

	"github.com/pkg/errors"
)

// PowChallenge fetches a proof-of-work puzzle for account registration.
func (c *Client) PowChallenge(ctx context.Context) (*PowChallenge, error) {
	var challenge PowChallenge
	if err := c.get(c.http.R().SetContext(ctx), "/etc/powChallenge", &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// CreateAccount registers a new account and returns a temporary auth token.
func (c *Client) CreateAccount(ctx context.Context, password string, pow Pow) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"password": password, "pow": pow}).
		Put("/user")
	if err != nil {
		return "", errors.Wrap(err, "create account request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// Login exchanges an account hash and password (plus an optional OTP code)
// for a temporary auth token.
func (c *Client) Login(ctx context.Context, hash, password, otp string) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"hash": hash, "password": password})
	if otp != "" {
		req.SetHeader(otpCodeHeader, otp)
	}

	resp, err := req.Post("/user/logIn")
	if err != nil {
		return "", errors.Wrap(err, "login request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// UserInfo fetches the authenticated account's profile.
func (c *Client) UserInfo(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.get(c.http.R().SetContext(ctx), "/user", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateAPIKey mints a new API key with the given label and returns it.
func (c *Client) CreateAPIKey(ctx context.Context, label string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"label": label}).
		Put("/user/apiKeys")
	if err != nil {
		return "", errors.Wrap(err, "create api key request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// APIKeys lists the account's API keys.
func (c *Client) APIKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.get(c.http.R().SetContext(ctx), "/user/apiKeys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteAPIKey revokes an API key.
func (c *Client) DeleteAPIKey(ctx context.Context, keyID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/user/apiKeys/" + keyID)
	if err != nil {
		return errors.Wrap(err, "delete api key request")
	}
	return mapStatusError(resp)
}

// SSHKeys lists the account's stored SSH public keys.
func (c *Client) SSHKeys(ctx context.Context) ([]SSHKey, error) {
	var keys []SSHKey
	if err := c.get(c.http.R().SetContext(ctx), "/user/sshKeys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// AddSSHKey stores a public key on the account and returns its id.
func (c *Client) AddSSHKey(ctx context.Context, key, name string) (string, error) {
	payload := map[string]string{"key": key}
	if name != "" {
		payload["name"] = name
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(payload).Put("/user/sshKeys")
	if err != nil {
		return "", errors.Wrap(err, "add ssh key request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// RenameSSHKey changes the display name of a stored SSH key.
func (c *Client) RenameSSHKey(ctx context.Context, keyID, newName string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(jsonQuote(newName)).Patch("/user/sshKeys/" + keyID)
	if err != nil {
		return errors.Wrap(err, "rename ssh key request")
	}
	return mapStatusError(resp)
}

// DeleteSSHKey removes a stored SSH key from the account.
func (c *Client) DeleteSSHKey(ctx context.Context, keyID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/user/sshKeys/" + keyID)
	if err != nil {
		return errors.Wrap(err, "delete ssh key request")
	}
	return mapStatusError(resp)
}

// GetContact fetches the account's contact settings.
func (c *Client) GetContact(ctx context.Context) (*Contact, error) {
	var contact Contact
	if err := c.get(c.http.R().SetContext(ctx), "/user/contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact patches the account's contact settings. Nil fields are left
// untouched.
func (c *Client) UpdateContact(ctx context.Context, email, matrix *string) error {
	payload := map[string]string{}
	if email != nil {
		payload["email"] = *email
	}
	if matrix != nil {
		payload["matrix"] = *matrix
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(payload).Patch("/user/contact")
	if err != nil {
		return errors.Wrap(err, "update contact request")
	}
	return mapStatusError(resp)
}

// LinkTelegram binds a Telegram account using a verification code.
func (c *Client) LinkTelegram(ctx context.Context, code string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(jsonQuote(code)).Put("/user/contact/telegram")
	if err != nil {
		return errors.Wrap(err, "link telegram request")
	}
	return mapStatusError(resp)
}

// UnlinkTelegram removes the Telegram binding.
func (c *Client) UnlinkTelegram(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/user/contact/telegram")
	if err != nil {
		return errors.Wrap(err, "unlink telegram request")
	}
	return mapStatusError(resp)
}

// GetOTPStatus reports whether 2FA is enabled.
func (c *Client) GetOTPStatus(ctx context.Context) (*OTPStatus, error) {
	var status OTPStatus
	if err := c.get(c.http.R().SetContext(ctx), "/user/otp", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
