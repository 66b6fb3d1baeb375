package api

import (
	"context"

	"github.com/pkg/errors"
)

// Chats lists the account's support conversations.
func (c *Client) Chats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.get(c.http.R().SetContext(ctx), "/chats", &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat opens a new support conversation and returns its id.
func (c *Client) CreateChat(ctx context.Context, ultraPrivateMode bool) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"ultraPrivateMode": ultraPrivateMode}).
		Put("/chats")
	if err != nil {
		return "", errors.Wrap(err, "create chat request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// ChatMessages fetches all messages of a conversation.
func (c *Client) ChatMessages(ctx context.Context, chatID string) ([]ChatMessage, error) {
	var messages []ChatMessage
	if err := c.get(c.http.R().SetContext(ctx), "/chats/"+chatID+"/messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkChatRead marks a conversation as read by the user.
func (c *Client) MarkChatRead(ctx context.Context, chatID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/chats/" + chatID + "/read")
	if err != nil {
		return errors.Wrap(err, "mark chat read request")
	}
	return mapStatusError(resp)
}

// DeleteChat removes a conversation.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/chats/" + chatID)
	if err != nil {
		return errors.Wrap(err, "delete chat request")
	}
	return mapStatusError(resp)
}

// ActiveStaffCount reports how many support staff are online.
func (c *Client) ActiveStaffCount(ctx context.Context) (int, error) {
	var count int
	if err := c.get(c.http.R().SetContext(ctx), "/chats/activeStaff", &count); err != nil {
		return 0, err
	}
	return count, nil
}

// EnableUltraPrivateMode keeps a conversation's messages on the provider's
// servers only.
func (c *Client) EnableUltraPrivateMode(ctx context.Context, chatID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/chats/" + chatID + "/enableUltraPrivateMode")
	if err != nil {
		return errors.Wrap(err, "enable ultra private mode request")
	}
	return mapStatusError(resp)
}

// DisableUltraPrivateMode reverts a conversation to normal privacy.
func (c *Client) DisableUltraPrivateMode(ctx context.Context, chatID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/chats/" + chatID + "/disableUltraPrivateMode")
	if err != nil {
		return errors.Wrap(err, "disable ultra private mode request")
	}
	return mapStatusError(resp)
}
