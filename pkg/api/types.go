package api

import "encoding/json"

// UserInfo describes the authenticated account. Balance is in euro cents.
type UserInfo struct {
	ID          json.Number `json:"id"`
	AccountHash string      `json:"accountHash"`
	Balance     float64     `json:"balance"`
}

// APIKey is a stored API credential.
type APIKey struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt string `json:"createdAt"`
}

// SSHKey is a public key stored on the account.
type SSHKey struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Contact holds the account's notification endpoints.
type Contact struct {
	Email  string `json:"email"`
	Matrix string `json:"matrix"`
}

// OTPStatus reports whether 2FA is enabled on the account.
type OTPStatus struct {
	Enabled bool `json:"enabled"`
}

// PowChallenge is the proof-of-work puzzle required to register an account.
type PowChallenge struct {
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

// Pow carries a solved proof-of-work challenge.
type Pow struct {
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
	Proof     string `json:"proof"`
}

// Danbo is a virtual server. Price is in euro cents, uptime in seconds.
type Danbo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	NextCycle    string  `json:"nextCycle"`
	Cancelled    bool    `json:"cancelled"`
	Suspended    bool    `json:"suspended"`
	SuspendedAt  string  `json:"suspendedAt"`
	Uptime       float64 `json:"uptime"`
	Datacenter   string  `json:"datacenter"`
	NodeHostname string  `json:"nodeHostname"`
	VMID         string  `json:"vmId"`
	HasISO       bool    `json:"hasIso"`
	ForceLimit   bool    `json:"forceLimit"`
	OS           string  `json:"os"`
}

// Specs is a Danbo hardware configuration.
type Specs struct {
	Cores int     `json:"cores"`
	RAM   float64 `json:"ram"`
	Disk  int     `json:"disk"`
}

// IPAddress is an IPv4 assigned to a Danbo. Price is in euro cents.
type IPAddress struct {
	IP      string  `json:"ip"`
	Primary bool    `json:"primary"`
	Gateway string  `json:"gateway"`
	Price   float64 `json:"price"`
}

// Subdomain is a DNS record pointing at a Danbo IP.
type Subdomain struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	IP     string `json:"ip"`
}

// HostKey is an SSH host key exposed by a Danbo.
type HostKey struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// DanboStat is one minute of resource usage. Time is unix seconds, CPU a
// 0..1 ratio, the rest byte counts.
type DanboStat struct {
	Time      int64   `json:"time"`
	CPU       float64 `json:"cpu"`
	Mem       float64 `json:"mem"`
	NetIn     float64 `json:"netin"`
	NetOut    float64 `json:"netout"`
	DiskRead  float64 `json:"diskread"`
	DiskWrite float64 `json:"diskwrite"`
}

// DatacenterPrices lists per-unit monthly prices in euro cents.
type DatacenterPrices struct {
	Core   float64 `json:"core"`
	RAMGb  float64 `json:"ramGb"`
	DiskTb float64 `json:"diskTb"`
	IP     float64 `json:"ip"`
	HddTb  float64 `json:"hddTb"`
}

// Brick is an attachable storage volume. Price is in euro cents.
type Brick struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	NextCycle   string  `json:"nextCycle"`
	Gb          float64 `json:"gb"`
	UsedSpaceGb float64 `json:"usedSpaceGb"`
	Datacenter  string  `json:"datacenter"`
	Suspended   bool    `json:"suspended"`
	SuspendedAt string  `json:"suspendedAt"`
	ServiceID   string  `json:"serviceId"`
}

// DepositPayment describes the payment side of a deposit.
type DepositPayment struct {
	XMR       float64 `json:"xmr"`
	EUR       float64 `json:"eur"`
	Address   string  `json:"address"`
	CreatedAt string  `json:"createdAt"`
}

// DepositStatus reports on-chain progress of a deposit.
type DepositStatus struct {
	Received      float64 `json:"received"`
	Confirmations int     `json:"confirmations"`
	ReceivedAll   bool    `json:"receivedAll"`
}

// PendingDeposit is a deposit awaiting full payment.
type PendingDeposit struct {
	ID      string         `json:"id"`
	Payment DepositPayment `json:"payment"`
	Status  DepositStatus  `json:"status"`
}

// ChatMessagePreview is the truncated last message shown in chat listings.
type ChatMessagePreview struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Chat is a support conversation.
type Chat struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	UpdatedAt   string              `json:"updatedAt"`
	ReadByUser  bool                `json:"readByUser"`
	LastMessage *ChatMessagePreview `json:"lastMessage"`
}

// ChatMessage is one message in a support conversation.
type ChatMessage struct {
	AuthorID  json.Number `json:"authorId"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
}
