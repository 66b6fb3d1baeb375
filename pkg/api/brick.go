package api

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const brickDeleteConfirmation = "DELETE BRICK AND ALL DATA NOW, NO UNDO"

// Bricks lists all owned storage volumes.
func (c *Client) Bricks(ctx context.Context) ([]Brick, error) {
	var bricks []Brick
	if err := c.get(c.http.R().SetContext(ctx), "/services/bricks", &bricks); err != nil {
		return nil, err
	}
	return bricks, nil
}

// Brick fetches one volume by id.
func (c *Client) Brick(ctx context.Context, brickID string) (*Brick, error) {
	var brick Brick
	if err := c.get(c.http.R().SetContext(ctx), "/services/bricks/"+brickID, &brick); err != nil {
		return nil, err
	}
	return &brick, nil
}

// BuyBrick provisions a new volume and returns its id.
func (c *Client) BuyBrick(ctx context.Context, gb int, datacenter string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"gb": gb, "datacenter": datacenter}).
		Put("/services/bricks")
	if err != nil {
		return "", errors.Wrap(err, "buy brick request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// DeleteBrick destroys a volume and all its data.
func (c *Client) DeleteBrick(ctx context.Context, brickID, otp string) error {
	req := c.http.R().SetContext(ctx).SetBody(jsonQuote(brickDeleteConfirmation))
	if otp != "" {
		req.SetHeader(otpCodeHeader, otp)
	}
	resp, err := req.Delete("/services/bricks/" + brickID)
	if err != nil {
		return errors.Wrap(err, "delete brick request")
	}
	return mapStatusError(resp)
}

// BrickMaxGrow reports how many GB the volume can still grow by.
func (c *Client) BrickMaxGrow(ctx context.Context, brickID string) (float64, error) {
	var maxGb float64
	if err := c.get(c.http.R().SetContext(ctx), "/services/bricks/"+brickID+"/maxGrow", &maxGb); err != nil {
		return 0, err
	}
	return maxGb, nil
}

// GrowBrick enlarges the volume by addGb.
func (c *Client) GrowBrick(ctx context.Context, brickID string, addGb int) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]int{"addGb": addGb}).
		Post("/services/bricks/" + brickID + "/grow")
	if err != nil {
		return errors.Wrap(err, "grow brick request")
	}
	return mapStatusError(resp)
}

// PayToUnsuspendBrick pays the outstanding balance of a suspended volume.
func (c *Client) PayToUnsuspendBrick(ctx context.Context, brickID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/services/bricks/" + brickID + "/payToUnsuspend")
	if err != nil {
		return errors.Wrap(err, "unsuspend brick request")
	}
	return mapStatusError(resp)
}

// AttachBrick attaches a volume to a server. Both must live in the same
// datacenter.
func (c *Client) AttachBrick(ctx context.Context, danboID, brickID string) error {
	resp, err := c.http.R().SetContext(ctx).Put(fmt.Sprintf("/services/danbo/%s/bricks/%s", danboID, brickID))
	if err != nil {
		return errors.Wrap(err, "attach brick request")
	}
	return mapStatusError(resp)
}

// DetachBrick detaches a volume from a server.
func (c *Client) DetachBrick(ctx context.Context, danboID, brickID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/services/danbo/%s/bricks/%s", danboID, brickID))
	if err != nil {
		return errors.Wrap(err, "detach brick request")
	}
	return mapStatusError(resp)
}
