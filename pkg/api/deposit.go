package api

import (
	"context"

	"github.com/pkg/errors"
)

// DepositRates fetches current exchange rates keyed by currency code.
func (c *Client) DepositRates(ctx context.Context) (map[string]float64, error) {
	var rates map[string]float64
	if err := c.get(c.http.R().SetContext(ctx), "/deposits/rates", &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// PendingDeposits lists deposits awaiting full payment.
func (c *Client) PendingDeposits(ctx context.Context) ([]PendingDeposit, error) {
	var deposits []PendingDeposit
	if err := c.get(c.http.R().SetContext(ctx), "/deposits/pending", &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

// CreateDeposit opens a new deposit in eur or xmr and returns its id.
func (c *Client) CreateDeposit(ctx context.Context, amount float64, currency string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"amount": amount, "currency": currency}).
		Put("/deposits")
	if err != nil {
		return "", errors.Wrap(err, "create deposit request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// Deposit fetches the payment details of a deposit.
func (c *Client) Deposit(ctx context.Context, depositID string) (*DepositPayment, error) {
	var payment DepositPayment
	if err := c.get(c.http.R().SetContext(ctx), "/deposits/"+depositID, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// DepositStatus fetches the on-chain progress of a deposit.
func (c *Client) DepositStatus(ctx context.Context, depositID string) (*DepositStatus, error) {
	var status DepositStatus
	if err := c.get(c.http.R().SetContext(ctx), "/deposits/"+depositID+"/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
