package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// The service demands this exact body before it will destroy a server.
const danboDeleteConfirmation = "DELETE VM AND ALL DATA NOW, NO UNDO"

// Danbos lists all owned virtual servers.
func (c *Client) Danbos(ctx context.Context) ([]Danbo, error) {
	var danbos []Danbo
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo", &danbos); err != nil {
		return nil, err
	}
	return danbos, nil
}

// Danbo fetches one server by id.
func (c *Client) Danbo(ctx context.Context, danboID string) (*Danbo, error) {
	var danbo Danbo
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID, &danbo); err != nil {
		return nil, err
	}
	return &danbo, nil
}

// DanboSpecs fetches the current hardware configuration.
func (c *Client) DanboSpecs(ctx context.Context, danboID string) (*Specs, error) {
	var specs Specs
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/specs", &specs); err != nil {
		return nil, err
	}
	return &specs, nil
}

// DanboIPs lists the IPv4 addresses assigned to a server.
func (c *Client) DanboIPs(ctx context.Context, danboID string) ([]IPAddress, error) {
	var ips []IPAddress
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/ips", &ips); err != nil {
		return nil, err
	}
	return ips, nil
}

// DanboReverseDNS lists the reverse DNS names of one address.
func (c *Client) DanboReverseDNS(ctx context.Context, danboID, ip string) ([]string, error) {
	var names []string
	path := fmt.Sprintf("/services/danbo/%s/ips/%s/reverse", danboID, ip)
	if err := c.get(c.http.R().SetContext(ctx), path, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// DanboIPv6Subnet fetches the server's IPv6 subnet.
func (c *Client) DanboIPv6Subnet(ctx context.Context, danboID string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/services/danbo/" + danboID + "/ips/sixSubnet")
	if err != nil {
		return "", errors.Wrap(err, "ipv6 subnet request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// AddDanboIP assigns an additional IPv4 (charged).
func (c *Client) AddDanboIP(ctx context.Context, danboID string) error {
	resp, err := c.http.R().SetContext(ctx).Put("/services/danbo/" + danboID + "/ips")
	if err != nil {
		return errors.Wrap(err, "add ip request")
	}
	return mapStatusError(resp)
}

// RemoveDanboIP releases an IPv4 from the server.
func (c *Client) RemoveDanboIP(ctx context.Context, danboID, ip string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/services/danbo/%s/ips/%s", danboID, ip))
	if err != nil {
		return errors.Wrap(err, "remove ip request")
	}
	return mapStatusError(resp)
}

// SetDanboPrimaryIP makes ip the server's primary address.
func (c *Client) SetDanboPrimaryIP(ctx context.Context, danboID, ip string) error {
	resp, err := c.http.R().SetContext(ctx).Post(fmt.Sprintf("/services/danbo/%s/ips/%s/primary", danboID, ip))
	if err != nil {
		return errors.Wrap(err, "set primary ip request")
	}
	return mapStatusError(resp)
}

// DanboMaxUpgrade fetches the largest specs the server's node can still
// accommodate.
func (c *Client) DanboMaxUpgrade(ctx context.Context, danboID string) (*Specs, error) {
	var specs Specs
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/maxUpgrade", &specs); err != nil {
		return nil, err
	}
	return &specs, nil
}

// ChangeDanboSpecs resizes the server.
func (c *Client) ChangeDanboSpecs(ctx context.Context, danboID string, specs Specs) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(specs).Patch("/services/danbo/" + danboID + "/specs")
	if err != nil {
		return errors.Wrap(err, "change specs request")
	}
	return mapStatusError(resp)
}

// ChangeDanboPower sends a power action: start, stop, shutdown or reboot.
func (c *Client) ChangeDanboPower(ctx context.Context, danboID, action string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(jsonQuote(action)).Post("/services/danbo/" + danboID + "/power")
	if err != nil {
		return errors.Wrap(err, "power request")
	}
	return mapStatusError(resp)
}

// DanboSubdomains lists the server's subdomains.
func (c *Client) DanboSubdomains(ctx context.Context, danboID string) ([]Subdomain, error) {
	var subdomains []Subdomain
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/subdomains", &subdomains); err != nil {
		return nil, err
	}
	return subdomains, nil
}

// CreateDanboSubdomain points name.domain at one of the server's addresses.
func (c *Client) CreateDanboSubdomain(ctx context.Context, danboID, name, domain, ip string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "domain": domain, "ip": ip}).
		Put("/services/danbo/" + danboID + "/subdomains")
	if err != nil {
		return errors.Wrap(err, "create subdomain request")
	}
	return mapStatusError(resp)
}

// DeleteDanboSubdomain removes a subdomain.
func (c *Client) DeleteDanboSubdomain(ctx context.Context, danboID, subdomainID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/services/danbo/%s/subdomains/%s", danboID, subdomainID))
	if err != nil {
		return errors.Wrap(err, "delete subdomain request")
	}
	return mapStatusError(resp)
}

// DanboBandwidthLimit fetches the current limit in Mb/s; zero means
// unlimited.
func (c *Client) DanboBandwidthLimit(ctx context.Context, danboID string) (float64, error) {
	var limit float64
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/bwLimit", &limit); err != nil {
		return 0, err
	}
	return limit, nil
}

// SetDanboBandwidthLimit caps the server's bandwidth in Mb/s.
func (c *Client) SetDanboBandwidthLimit(ctx context.Context, danboID string, limit float64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]float64{"limit": limit}).
		Patch("/services/danbo/" + danboID + "/bwLimit")
	if err != nil {
		return errors.Wrap(err, "set bandwidth limit request")
	}
	return mapStatusError(resp)
}

// ClearDanboBandwidthLimit removes the bandwidth cap.
func (c *Client) ClearDanboBandwidthLimit(ctx context.Context, danboID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/services/danbo/" + danboID + "/bwLimit")
	if err != nil {
		return errors.Wrap(err, "clear bandwidth limit request")
	}
	return mapStatusError(resp)
}

// DanboAuthorizedKeys fetches the authorized_keys content injected into the
// server.
func (c *Client) DanboAuthorizedKeys(ctx context.Context, danboID string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/services/danbo/" + danboID + "/authorizedKeys")
	if err != nil {
		return "", errors.Wrap(err, "authorized keys request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// SetDanboAuthorizedKeys replaces the server's authorized_keys content.
func (c *Client) SetDanboAuthorizedKeys(ctx context.Context, danboID, keys string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(jsonQuote(keys)).Put("/services/danbo/" + danboID + "/authorizedKeys")
	if err != nil {
		return errors.Wrap(err, "set authorized keys request")
	}
	return mapStatusError(resp)
}

// DanboHostKeys lists the server's SSH host keys.
func (c *Client) DanboHostKeys(ctx context.Context, danboID string) ([]HostKey, error) {
	var keys []HostKey
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/hostKeys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// DanboStats fetches recent per-minute resource usage samples.
func (c *Client) DanboStats(ctx context.Context, danboID string) ([]DanboStat, error) {
	var stats []DanboStat
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/stats", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DanboBricks lists the bricks attached to a server.
func (c *Client) DanboBricks(ctx context.Context, danboID string) ([]Brick, error) {
	var bricks []Brick
	if err := c.get(c.http.R().SetContext(ctx), "/services/danbo/"+danboID+"/bricks/", &bricks); err != nil {
		return nil, err
	}
	return bricks, nil
}

// BuyDanbo provisions a new server and returns its id. fours is the number
// of additional IPv4 addresses.
func (c *Client) BuyDanbo(ctx context.Context, datacenter string, specs Specs, fours int) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"datacenter": datacenter,
			"specs":      specs,
			"fours":      fours,
		}).
		Put("/services/danbo")
	if err != nil {
		return "", errors.Wrap(err, "buy danbo request")
	}
	if err := mapStatusError(resp); err != nil {
		return "", err
	}
	return decodeString(resp), nil
}

// DeleteDanbo destroys a server and all its data. The OTP code, when
// present, is sent per-request since deletion is the one operation that
// demands a fresh code.
func (c *Client) DeleteDanbo(ctx context.Context, danboID, otp string) error {
	req := c.http.R().SetContext(ctx).SetBody(jsonQuote(danboDeleteConfirmation))
	if otp != "" {
		req.SetHeader(otpCodeHeader, otp)
	}
	resp, err := req.Delete("/services/danbo/" + danboID)
	if err != nil {
		return errors.Wrap(err, "delete danbo request")
	}
	return mapStatusError(resp)
}

// CancelDanbo schedules the server for deletion at the next renewal date.
func (c *Client) CancelDanbo(ctx context.Context, danboID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/services/danbo/" + danboID + "/billing/cancel")
	if err != nil {
		return errors.Wrap(err, "cancel danbo request")
	}
	return mapStatusError(resp)
}

// ResumeDanbo reverts a pending cancellation.
func (c *Client) ResumeDanbo(ctx context.Context, danboID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/services/danbo/" + danboID + "/billing/resume")
	if err != nil {
		return errors.Wrap(err, "resume danbo request")
	}
	return mapStatusError(resp)
}

// PayToUnsuspendDanbo pays the outstanding balance of a suspended server.
func (c *Client) PayToUnsuspendDanbo(ctx context.Context, danboID string) error {
	resp, err := c.http.R().SetContext(ctx).Post("/services/danbo/" + danboID + "/billing/payToUnsuspend")
	if err != nil {
		return errors.Wrap(err, "unsuspend danbo request")
	}
	return mapStatusError(resp)
}

// RenameDanbo changes the server's name and hostname.
func (c *Client) RenameDanbo(ctx context.Context, danboID, newName string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(jsonQuote(newName)).Patch("/services/danbo/" + danboID + "/name")
	if err != nil {
		return errors.Wrap(err, "rename danbo request")
	}
	return mapStatusError(resp)
}

// DatacenterPrices fetches per-unit monthly prices for a datacenter.
func (c *Client) DatacenterPrices(ctx context.Context, datacenterID string) (*DatacenterPrices, error) {
	var prices DatacenterPrices
	if err := c.get(c.http.R().SetContext(ctx), "/datacenters/"+datacenterID+"/prices", &prices); err != nil {
		return nil, err
	}
	return &prices, nil
}

// DatacenterAvailableSpecs fetches the largest specs currently in stock.
// Non-zero filter values narrow the query.
func (c *Client) DatacenterAvailableSpecs(ctx context.Context, datacenterID string, filter Specs) (*Specs, error) {
	req := c.http.R().SetContext(ctx)
	if filter.Cores > 0 {
		req.SetQueryParam("cores", strconv.Itoa(filter.Cores))
	}
	if filter.RAM > 0 {
		req.SetQueryParam("ram", strconv.FormatFloat(filter.RAM, 'f', -1, 64))
	}
	if filter.Disk > 0 {
		req.SetQueryParam("disk", strconv.Itoa(filter.Disk))
	}

	var specs Specs
	if err := c.get(req, "/datacenters/"+datacenterID+"/availableSpecs", &specs); err != nil {
		return nil, err
	}
	return &specs, nil
}
